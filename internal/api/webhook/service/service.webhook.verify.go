// Package webhooksvc - handshake xác minh webhook.
// File: service.webhook.verify.go
package webhooksvc

// VerifyHandshake kiểm tra handshake GET của provider.
// Trả về (challenge, true) khi mode đúng "subscribe" và verifyToken khớp
// chính xác secret cấu hình (so sánh chuỗi tuyệt đối, không pattern match);
// mọi trường hợp khác trả về ("", false). Hàm thuần — một đường ra duy nhất
// cho mỗi nhánh, không leak check nào fail.
func VerifyHandshake(mode, verifyToken, challenge, configuredToken string) (string, bool) {
	ok := mode == "subscribe" && configuredToken != "" && verifyToken == configuredToken
	if !ok {
		return "", false
	}
	return challenge, true
}
