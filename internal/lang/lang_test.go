package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_FallbackToRussian(t *testing.T) {
	ru := Load("ru")
	assert.Equal(t, ru["main_menu"], Load("xx")["main_menu"])
	assert.Equal(t, ru["main_menu"], Load("")["main_menu"])
}

func TestLoad_English(t *testing.T) {
	en := Load("en")
	assert.NotEqual(t, Load("ru")["main_menu"], en["main_menu"])
}

func TestT_FillsPlaceholders(t *testing.T) {
	l := Lang{"greet": "Привет, {name}! Склад: {warehouse}."}
	got := l.T("greet", "name", "Иван", "warehouse", "Казань")
	assert.Equal(t, "Привет, Иван! Склад: Казань.", got)
}

func TestT_MissingKeyReturnsKey(t *testing.T) {
	l := Lang{}
	assert.Equal(t, "no_such_key", l.T("no_such_key"))
}

func TestT_NoArgsLeavesTemplate(t *testing.T) {
	l := Lang{"tpl": "до х{coef}"}
	assert.Equal(t, "до х{coef}", l.T("tpl"))
}

func TestList(t *testing.T) {
	l := Load("ru")
	assert.Len(t, l.List("months"), 12)
	assert.Len(t, l.List("weekdays"), 7)
}

func TestLocalesHaveSameKeys(t *testing.T) {
	ru := Load("ru")
	en := Load("en")
	for k := range ru {
		_, ok := en[k]
		assert.True(t, ok, "в en нет ключа %q", k)
	}
	for k := range en {
		_, ok := ru[k]
		assert.True(t, ok, "в ru нет ключа %q", k)
	}
}
