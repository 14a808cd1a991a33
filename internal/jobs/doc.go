// Package jobs はオーディオブックのダウンロードジョブの状態管理と、
// 進行中ジョブ一覧（/active-downloads）の提供・取得を行います。
//
// ジョブ状態は Redis に JSON で保存し、有効期限（TTL）が切れると自動で消えます。
// 進行中ジョブは作成時刻順の索引で管理するため、一覧は常に古い順に並びます。
package jobs
