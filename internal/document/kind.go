package document

// Kind 按扩展名粗分的文件类别
type Kind string

const (
	KindJSON     Kind = "json"
	KindCode     Kind = "code"
	KindMarkdown Kind = "markdown"
	KindMarkup   Kind = "markup"
	KindText     Kind = "text"
)

// KindOf 根据文件名判断类别
func KindOf(name string) Kind {
	switch extension(name) {
	case "json":
		return KindJSON
	case "js", "ts", "py", "java", "cpp":
		return KindCode
	case "md":
		return KindMarkdown
	case "html", "xml":
		return KindMarkup
	default:
		return KindText
	}
}
