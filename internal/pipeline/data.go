package pipeline

import "strconv"

// IdiomData is the slice of an idiom the stages need.
type IdiomData struct {
	ID              int
	Implementations []ImplData
}

// ImplData holds one implementation to render or decorate.
type ImplData struct {
	ID                     int
	LanguageName           string
	ImportsBlock           string
	CodeBlock              string
	AuthorComment          string
	DemoURL                string
	DocumentationURL       string
	OriginalAttributionURL string
}

// ImplNodeID returns the id attribute of an implementation node.
func ImplNodeID(implID int) string {
	return "impl-" + strconv.Itoa(implID)
}

// ImplEditPath returns the edit route of one implementation.
func ImplEditPath(idiomID, implID int) string {
	return "/impl-edit/" + strconv.Itoa(idiomID) + "/" + strconv.Itoa(implID)
}

// IdiomEditPath returns the edit route of an idiom statement.
func IdiomEditPath(idiomID int) string {
	return "/idiom-edit/" + strconv.Itoa(idiomID)
}
