// internal/view/uahelpers.go
//
// User-Agent-related template helpers.  Each takes the page's
// *requestinfo.Info and tolerates nil, so templates rendered outside the
// middleware chain (tests, error pages) still execute.
package view

import (
	"html/template"

	"github.com/yanizio/abalone/internal/requestinfo"
)

func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser": func(i *requestinfo.Info) string {
			if i == nil {
				return ""
			}
			return i.UA.Browser
		},
		"device": func(i *requestinfo.Info) string {
			if i == nil {
				return "Other"
			}
			return i.UA.Device
		},
		"isBot": func(i *requestinfo.Info) bool { return i != nil && i.UA.IsBot },
	}
}
