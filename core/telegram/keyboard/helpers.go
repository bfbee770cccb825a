// Package keyboard builds inline keyboards from compact button specs.
package keyboard

import (
	tele "gopkg.in/telebot.v4"
)

// InlineBtn describes one inline button. Either Unique (callback) or
// URL must be set; URL wins when both are present.
type InlineBtn struct {
	Text    string
	Unique  string
	Payload string
	URL     string
}

// InlineRow builds one keyboard row from button specs.
func InlineRow(markup *tele.ReplyMarkup, btns ...InlineBtn) tele.Row {
	row := make(tele.Row, 0, len(btns))
	for _, b := range btns {
		if b.URL != "" {
			row = append(row, markup.URL(b.Text, b.URL))
			continue
		}
		row = append(row, markup.Data(b.Text, b.Unique, b.Payload))
	}
	return row
}

// Inline builds a full inline keyboard from rows of button specs.
func Inline(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	teleRows := make([]tele.Row, 0, len(rows))
	for _, r := range rows {
		teleRows = append(teleRows, InlineRow(markup, r...))
	}
	markup.Inline(teleRows...)
	return markup
}
