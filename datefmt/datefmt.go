// Package datefmt formats publication dates the way the site displays them.
package datefmt

import (
	"time"

	"github.com/goodsign/monday"
)

// Layout renders as "dd MMM yyyy".
const Layout = "02 Jan 2006"

// Locale 은 화면에 표시되는 월 약어의 언어다.
const Locale = monday.LocalePtBR

// Format returns "" for a missing date.
func Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return monday.Format(*t, Layout, Locale)
}
