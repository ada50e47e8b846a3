// types.go defines the typed views of BODIK API responses.
//
// The search endpoints return loosely structured JSON whose attribute
// set varies per dataset, so search results stay as decoded generic
// JSON and only the stable catalogue shapes get concrete types.

package bodik

// Dataset describes one entry of GET /api/list.
type Dataset struct {
	APIName     string `json:"apiname"`
	Description string `json:"description,omitempty"`
}

// Organization describes one entry of GET /organization: a municipality
// (or other body) publishing datasets through BODIK.
type Organization struct {
	Code string `json:"organ_code"`
	Name string `json:"organ_name"`
}
