// Package widget はジョブパネル（進行中ダウンロードの一覧）を実装します。
//
// ウィジェットはホストページの4要素（トグル・パネル・バッジ・一覧）に結び付き、
// 一定間隔で /active-downloads をポーリングして一覧とバッジを描き直します。
// ポーリングの失敗はすべて無視し、直前の表示をそのまま残します。
package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Armed-Dockers/audiobook-downloader/internal/dom"
	"github.com/Armed-Dockers/audiobook-downloader/internal/jobs"
)

// DefaultInterval はポーリング間隔の既定値です。
const DefaultInterval = 2000 * time.Millisecond

// Lookup はホストページから要素を引き当てます。*dom.Document が実装します。
type Lookup interface {
	GetElementByID(id string) *dom.Element
}

// Fetcher は進行中ジョブのスナップショットを取得します。*jobs.Client が実装します。
type Fetcher interface {
	FetchActive(ctx context.Context) (*jobs.StatusSnapshot, error)
}

// Options はウィジェットの動作設定です。
type Options struct {
	Interval time.Duration
	// OnResult は各ポーリングの結果を受け取ります。表示には影響しません。
	OnResult func(PollResult)
}

// Widget はジョブパネルです。
type Widget struct {
	toggle *dom.Element
	panel  *dom.Element
	badge  *dom.Element
	list   *dom.Element

	fetcher  Fetcher
	interval time.Duration
	onResult func(PollResult)

	// renderMu はバッジと一覧を1つのスナップショットでまとめて書き換えるためのロックです。
	renderMu sync.Mutex
}

// Mount はページの4要素に結び付いたウィジェットを作成し、トグルのクリックハンドラーを登録します。
// 要素が1つでも欠けている場合は何もせず nil を返します。
func Mount(page Lookup, fetcher Fetcher, opts Options) *Widget {
	if page == nil || fetcher == nil {
		return nil
	}
	toggle := page.GetElementByID(dom.JobsToggleID)
	panel := page.GetElementByID(dom.JobsPanelID)
	badge := page.GetElementByID(dom.JobsBadgeID)
	list := page.GetElementByID(dom.JobsListID)
	if toggle == nil || panel == nil || badge == nil || list == nil {
		return nil
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	w := &Widget{
		toggle:   toggle,
		panel:    panel,
		badge:    badge,
		list:     list,
		fetcher:  fetcher,
		interval: interval,
		onResult: opts.OnResult,
	}
	toggle.OnClick(w.Toggle)
	return w
}

// Toggle はパネルの表示/非表示を切り替えます。
func (w *Widget) Toggle() {
	w.panel.ToggleClass(dom.HiddenClass)
}

// Hidden はパネルが非表示かどうかを返します。
func (w *Widget) Hidden() bool {
	return w.panel.HasClass(dom.HiddenClass)
}

// Refresh は1回分のポーリングを行い、成功時のみバッジと一覧を更新します。
func (w *Widget) Refresh(ctx context.Context) PollResult {
	result := w.poll(ctx)
	if result.OK() {
		w.apply(result.Snapshot)
	}
	if w.onResult != nil {
		w.onResult(result)
	}
	return result
}

func (w *Widget) poll(ctx context.Context) PollResult {
	snapshot, err := w.fetcher.FetchActive(ctx)
	if err != nil {
		return failed(err)
	}
	if snapshot == nil {
		return failed(&jobs.FetchError{Kind: jobs.FailureDecode, Err: errors.New("empty snapshot")})
	}
	return PollResult{Snapshot: snapshot}
}

func (w *Widget) apply(snapshot *jobs.StatusSnapshot) {
	markup, err := renderJobList(snapshot.Jobs)
	if err != nil {
		return
	}
	w.renderMu.Lock()
	defer w.renderMu.Unlock()
	w.badge.SetText(badgeText(snapshot.Count))
	w.list.SetInnerHTML(markup)
}

// Run は直ちに1回ポーリングし、その後は Interval ごとにポーリングを続けます。
// 各ポーリングは独立したゴルーチンで実行し、前回の完了を待ちません（後から完了した結果が表示に残ります）。
// ctx が終了するまで戻りません。
func (w *Widget) Run(ctx context.Context) {
	go w.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go w.Refresh(ctx)
		}
	}
}
