package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/mkravets/wb-slots-bot/internal/lang"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

// sendExport собирает xlsx со свёртками задач и отправляет документом.
func (b *Bot) sendExport(ctx context.Context, cb *tgbotapi.CallbackQuery, l lang.Lang, resp wizard.Response) {
	chatID := cb.Message.Chat.ID

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"warehouse_id",
		"warehouse_name",
		"box_types",
		"max_coef",
		"period_start",
		"period_end",
		"alarm",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		b.log.Error("export header failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, l.T("error")))
		return
	}

	row := 2
	for _, r := range resp.List.Rows {
		excelRow := []interface{}{
			r.WarehouseID,
			r.Name,
			boxLabels(l, r.Boxes),
			r.Coef,
			r.Start,
			r.End,
			r.Alarm,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			b.log.Error("export cell failed", "err", err)
			b.send(tgbotapi.NewMessage(chatID, l.T("error")))
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			b.log.Error("export row failed", "err", err)
			b.send(tgbotapi.NewMessage(chatID, l.T("error")))
			return
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("export write failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, l.T("error")))
		return
	}

	fileName := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: buf.Bytes(),
	})
	doc.Caption = l.T("export_caption")
	b.send(doc)
}
