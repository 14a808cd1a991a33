// Package dom はジョブパネルを描画するためのメモリ上の要素ツリーを提供します。
//
// ブラウザの DOM と同じく ID で要素を引き当て、クラス・テキスト・内部HTML・クリックハンドラーを持ちます。
// 各要素は複数のゴルーチンから更新されるため、要素ごとにロックで保護します（最後の書き込みが勝ちます）。
package dom

import (
	"html/template"
	"sort"
	"sync"
)

// Element はページ上の1要素を表します。
type Element struct {
	ID  string
	Tag string

	mu        sync.RWMutex
	classes   map[string]struct{}
	text      string
	innerHTML template.HTML
	handlers  []func()
}

// NewElement は要素を作成します。
func NewElement(tag, id string, classes ...string) *Element {
	el := &Element{
		ID:      id,
		Tag:     tag,
		classes: make(map[string]struct{}),
	}
	for _, c := range classes {
		el.classes[c] = struct{}{}
	}
	return el
}

// ToggleClass はクラスの有無を反転し、反転後に付いているかどうかを返します。
func (e *Element) ToggleClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.classes[name]; ok {
		delete(e.classes, name)
		return false
	}
	e.classes[name] = struct{}{}
	return true
}

// HasClass はクラスが付いているかを返します。
func (e *Element) HasClass(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.classes[name]
	return ok
}

// Classes はクラス名をソート済みで返します。
func (e *Element) Classes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.classes))
	for c := range e.classes {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// SetText はテキスト内容を置き換えます。
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	e.innerHTML = ""
}

// Text はテキスト内容を返します。
func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// SetInnerHTML は子要素のマークアップを丸ごと置き換えます。
func (e *Element) SetInnerHTML(markup template.HTML) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.innerHTML = markup
	e.text = ""
}

// InnerHTML は子要素のマークアップを返します。
func (e *Element) InnerHTML() template.HTML {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.innerHTML
}

// OnClick はクリック時のハンドラーを登録します。
func (e *Element) OnClick(handler func()) {
	if handler == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Click は登録済みのハンドラーを登録順に呼び出します。
func (e *Element) Click() {
	e.mu.RLock()
	handlers := make([]func(), len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}

// HandlerCount は登録済みのクリックハンドラー数を返します。
func (e *Element) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Document は ID で引ける要素の集合です。
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
}

// NewDocument は空のドキュメントを作成します。
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Append は要素を登録します。同じ ID の要素は置き換えられます。
func (d *Document) Append(el *Element) {
	if el == nil || el.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[el.ID] = el
}

// GetElementByID は要素を返します。存在しない場合は nil です。
func (d *Document) GetElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elements[id]
}
