package notifier

import "strings"

// NormalizePhone приводит уругвайский номер к E.164
//
//	"099 123 456" -> "+59899123456"
//	"59899123456" -> "+59899123456"
//	"99123456"    -> "+59899123456"
func NormalizePhone(phone string) string {
	p := strings.Join(strings.Fields(phone), "")
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "09"):
		return "+598" + p[1:]
	case strings.HasPrefix(p, "598"):
		return "+" + p
	case !strings.HasPrefix(p, "+"):
		return "+598" + p
	default:
		return p
	}
}
