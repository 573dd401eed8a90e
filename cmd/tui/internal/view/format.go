package view

import (
	"context"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const requestTimeout = 10 * time.Second

var amounts = message.NewPrinter(language.English)

// FormatAmount renders a minor-unit amount with digit grouping, e.g. 70,000.
func FormatAmount(amount int64) string {
	return amounts.Sprintf("%d", amount)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// RequestCtx bounds a single API call made from a view.
func RequestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
