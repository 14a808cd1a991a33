package dom

// ジョブパネルが必要とする要素のIDです。
const (
	JobsToggleID = "jobs-toggle"
	JobsPanelID  = "jobs-panel"
	JobsBadgeID  = "jobs-badge"
	JobsListID   = "jobs-list"

	// HiddenClass はパネルの非表示を表すクラスです。
	HiddenClass = "hidden"
)

// NewJobsPanelDocument はジョブパネルの4要素を持つホストページを作成します。
// パネルは非表示、バッジは 0 の状態で始まります。
func NewJobsPanelDocument() *Document {
	doc := NewDocument()
	doc.Append(NewElement("button", JobsToggleID, "jobs-toggle"))
	doc.Append(NewElement("div", JobsPanelID, "jobs-panel", HiddenClass))

	badge := NewElement("span", JobsBadgeID, "jobs-badge")
	badge.SetText("0")
	doc.Append(badge)

	doc.Append(NewElement("ul", JobsListID, "jobs-list"))
	return doc
}
