// Package lang отдаёт локализованные шаблоны строк по коду языка.
// Словари лежат рядом в locales/ и вшиваются в бинарь; неизвестный код
// языка откатывается на русский.
package lang

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var files embed.FS

const fallback = "ru"

var dicts = map[string]Lang{}

func init() {
	entries, err := files.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("lang: read locales: %v", err))
	}
	for _, e := range entries {
		code := strings.TrimSuffix(e.Name(), ".yaml")
		raw, err := files.ReadFile("locales/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("lang: read %s: %v", e.Name(), err))
		}
		var d Lang
		if err := yaml.Unmarshal(raw, &d); err != nil {
			panic(fmt.Sprintf("lang: parse %s: %v", e.Name(), err))
		}
		dicts[code] = d
	}
	if _, ok := dicts[fallback]; !ok {
		panic("lang: fallback locale missing")
	}
}

// Lang — плоский словарь ключ → шаблон с именованными плейсхолдерами
// вида {warehouse}.
type Lang map[string]string

// Load возвращает словарь языка, с откатом на русский.
func Load(code string) Lang {
	if d, ok := dicts[code]; ok {
		return d
	}
	return dicts[fallback]
}

// T подставляет аргументы в шаблон. Неизвестный ключ возвращается как
// есть — так опечатка видна прямо в чате, а бот не падает.
func (l Lang) T(key string, args ...string) string {
	tpl, ok := l[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// List разбирает значение-перечисление ("Янв,Фев,…") на элементы.
func (l Lang) List(key string) []string {
	return strings.Split(l.T(key), ",")
}
