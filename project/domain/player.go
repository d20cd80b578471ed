package domain

import (
	"fmt"
	"regexp"
)

// externalPlayerIDPattern はメッセージ本文に埋め込まれた JSON 断片
// `"external_player_id": "<値>"` にマッチします。キー名の完全一致のみを
// 許容し、大文字小文字の揺れや引用符の欠落はマッチ対象外です
var externalPlayerIDPattern = regexp.MustCompile(`"external_player_id"\s*:\s*"([^"]+)"`)

// ExtractExternalPlayerID は生テキストから external_player_id の値を抽出します
// 複数回出現する場合は最初のマッチを採用します
// パターンが見つからない場合は ErrPlayerIDNotFound を返します
func ExtractExternalPlayerID(text string) (string, error) {
	m := externalPlayerIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%w: テキストにパターンが含まれていません", ErrPlayerIDNotFound)
	}
	return m[1], nil
}
