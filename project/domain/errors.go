package domain

import "errors"

// ドメインエラー定義
var (
	// ErrPlayerIDNotFound はテキストから external_player_id を抽出できなかった場合のエラー
	ErrPlayerIDNotFound = errors.New("ドメイン: external_player_id が見つかりません")

	// ErrDownstream は下流 API（認証サービス・メッセージングサービス）の呼び出しが
	// 通信エラーまたは非成功ステータスで失敗した場合のエラー
	ErrDownstream = errors.New("ドメイン: 下流 API 呼び出しに失敗しました")
)
