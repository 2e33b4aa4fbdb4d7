// Package webhooksvc - test handshake xác minh webhook.
package webhooksvc

import "testing"

func TestVerifyHandshake_TokenDung(t *testing.T) {
	challenge, ok := VerifyHandshake("subscribe", "secret-token", "1158201444", "secret-token")
	if !ok {
		t.Fatal("Handshake với token đúng phải thành công")
	}
	if challenge != "1158201444" {
		t.Errorf("Challenge phải được echo nguyên vẹn, nhận %q", challenge)
	}
}

func TestVerifyHandshake_TokenSai(t *testing.T) {
	challenge, ok := VerifyHandshake("subscribe", "wrong-token", "1158201444", "secret-token")
	if ok {
		t.Fatal("Handshake với token sai phải thất bại")
	}
	if challenge != "" {
		t.Errorf("Handshake thất bại không được trả challenge, nhận %q", challenge)
	}
}

func TestVerifyHandshake_ModeKhacSubscribe(t *testing.T) {
	if _, ok := VerifyHandshake("unsubscribe", "secret-token", "123", "secret-token"); ok {
		t.Error("Mode khác subscribe phải thất bại dù token đúng")
	}
	if _, ok := VerifyHandshake("", "secret-token", "123", "secret-token"); ok {
		t.Error("Mode rỗng phải thất bại")
	}
}

func TestVerifyHandshake_SecretChuaCauHinh(t *testing.T) {
	// Secret rỗng không được match token rỗng — fail-closed
	if _, ok := VerifyHandshake("subscribe", "", "123", ""); ok {
		t.Error("Secret chưa cấu hình phải từ chối mọi handshake, kể cả token rỗng")
	}
}

func TestVerifyHandshake_SoSanhTuyetDoi(t *testing.T) {
	// So sánh chuỗi tuyệt đối, không prefix/substring match
	cases := []string{"secret", "secret-token-extra", "SECRET-TOKEN", " secret-token"}
	for _, token := range cases {
		if _, ok := VerifyHandshake("subscribe", token, "123", "secret-token"); ok {
			t.Errorf("Token %q không khớp tuyệt đối nhưng vẫn pass", token)
		}
	}
}

func TestVerifyHandshake_ChallengeRong(t *testing.T) {
	challenge, ok := VerifyHandshake("subscribe", "secret-token", "", "secret-token")
	if !ok {
		t.Fatal("Challenge rỗng vẫn là handshake hợp lệ")
	}
	if challenge != "" {
		t.Errorf("Challenge rỗng phải echo rỗng, nhận %q", challenge)
	}
}
