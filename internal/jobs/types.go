package jobs

import "time"

// Status はダウンロードジョブの実行状態を表します。
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "done"
	StatusFailed    Status = "error"
)

// Active はジョブがまだ進行中かどうかを返します。
func (s Status) Active() bool {
	return s == StatusQueued || s == StatusRunning
}

// ProgressInfo はチャプター単位の進捗を表します。
type ProgressInfo struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Message string `json:"message,omitempty"`
}

// ErrorInfo はジョブ失敗時のエラー情報を保持します。
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Record はダウンロードジョブの現在状態を表します。
type Record struct {
	JobID     string       `json:"jobId"`
	BookTitle string       `json:"bookTitle"`
	Status    Status       `json:"status"`
	Progress  ProgressInfo `json:"progress"`
	Error     *ErrorInfo   `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// StatusSnapshot は GET /active-downloads のレスポンスです。
type StatusSnapshot struct {
	Count int       `json:"count"`
	Jobs  []JobView `json:"jobs"`
}

// JobView はジョブパネルに表示する1件分の情報です。
type JobView struct {
	JobID     string `json:"job_id"`
	BookTitle string `json:"book_title"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Message   string `json:"message"`
}

// View は Record をパネル表示用の JobView に変換します。
func (r *Record) View() JobView {
	return JobView{
		JobID:     r.JobID,
		BookTitle: r.BookTitle,
		Current:   r.Progress.Current,
		Total:     r.Progress.Total,
		Percent:   r.Progress.Percent,
		Message:   r.Progress.Message,
	}
}

// BuildSnapshot は受け取った順序のまま StatusSnapshot を組み立てます。
func BuildSnapshot(records []*Record) StatusSnapshot {
	views := make([]JobView, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		views = append(views, r.View())
	}
	return StatusSnapshot{
		Count: len(views),
		Jobs:  views,
	}
}

// percentOf は current/total を 0〜100 の整数パーセントに丸めます。
func percentOf(current, total int) int {
	if total <= 0 {
		return 0
	}
	percent := current * 100 / total
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent
}
