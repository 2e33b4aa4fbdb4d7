// Package evosvc - test field mapping và conflict policy.
package evosvc

import (
	"encoding/json"
	"testing"
)

func TestMapMemberFields_MappingMacDinh(t *testing.T) {
	member := EvoMember{
		ID:        "evo-1",
		UpdatedAt: "2026-08-20T10:00:00Z",
		Raw: map[string]interface{}{
			"idMember": "evo-1",
			"nameFull": "Nguyễn Văn A",
			"phone":    "84912345678",
			"email":    "a@example.com",
		},
	}

	fields, err := MapMemberFields(member, nil)
	if err != nil {
		t.Fatalf("Mapping mặc định thất bại: %v", err)
	}
	if fields["name"] != "Nguyễn Văn A" {
		t.Errorf("nameFull phải map sang name, nhận %v", fields["name"])
	}
	if fields["phone"] != "84912345678" {
		t.Errorf("phone map sai: %v", fields["phone"])
	}
	if fields["email"] != "a@example.com" {
		t.Errorf("email map sai: %v", fields["email"])
	}
	if fields["evoUpdatedAt"] == nil {
		t.Error("evoUpdatedAt phải được gắn khi member có updatedAt")
	}
}

func TestMapMemberFields_MappingTuyChinh(t *testing.T) {
	member := EvoMember{
		ID: "evo-2",
		Raw: map[string]interface{}{
			"idMember":    "evo-2",
			"cellphone":   "84900000001",
			"membership":  "GOLD",
			"nestedThing": map[string]interface{}{"x": 1},
		},
	}
	mapping := map[string]string{
		"cellphone":   "phone",
		"membership":  "tier",
		"nestedThing": "nested",
	}

	fields, err := MapMemberFields(member, mapping)
	if err != nil {
		t.Fatalf("Mapping tùy chỉnh thất bại: %v", err)
	}
	if fields["phone"] != "84900000001" {
		t.Errorf("cellphone phải map sang phone, nhận %v", fields["phone"])
	}
	if fields["tier"] != "GOLD" {
		t.Errorf("membership phải map sang tier, nhận %v", fields["tier"])
	}
	if _, ok := fields["nested"]; ok {
		t.Error("Giá trị không phải scalar không được map")
	}
}

func TestMapMemberFields_ThieuID(t *testing.T) {
	member := EvoMember{Raw: map[string]interface{}{"nameFull": "X"}}
	if _, err := MapMemberFields(member, nil); err == nil {
		t.Error("Member thiếu idMember phải là lỗi mapping")
	}
}

func TestMapMemberFields_KhongMapDuocFieldNao(t *testing.T) {
	member := EvoMember{
		ID:  "evo-3",
		Raw: map[string]interface{}{"idMember": "evo-3", "unknownField": "x"},
	}
	if _, err := MapMemberFields(member, nil); err == nil {
		t.Error("Member không map ra field nào phải là lỗi mapping")
	}
}

func TestParseEvoUpdatedAt(t *testing.T) {
	if got := ParseEvoUpdatedAt("2026-08-20T10:00:00Z"); got != 1787220000000 {
		t.Errorf("RFC3339 hợp lệ parse sai: %d", got)
	}
	if got := ParseEvoUpdatedAt(""); got != 0 {
		t.Errorf("updatedAt vắng phải trả 0, nhận %d", got)
	}
	if got := ParseEvoUpdatedAt("20/08/2026"); got != 0 {
		t.Errorf("updatedAt hỏng phải trả 0, nhận %d", got)
	}
}

func TestShouldOverwrite_LastWriteWins(t *testing.T) {
	// External mới hơn local → ghi đè
	if !ShouldOverwrite(1000, 2000) {
		t.Error("External mới hơn phải ghi đè")
	}
	// External cũ hơn local → giữ local
	if ShouldOverwrite(2000, 1000) {
		t.Error("External cũ hơn không được ghi đè")
	}
	// Bằng nhau → ghi đè (external thắng khi hòa)
	if !ShouldOverwrite(1000, 1000) {
		t.Error("Timestamp bằng nhau external phải thắng")
	}
	// EVO không gửi updatedAt → luôn ghi đè
	if !ShouldOverwrite(99999, 0) {
		t.Error("External không có updatedAt phải luôn ghi đè")
	}
}

func TestBuildPushPayload_DaoChieuMapping(t *testing.T) {
	leadFields := map[string]interface{}{
		"name":  "Nguyễn Văn A",
		"phone": "84912345678",
		"email": nil,
	}

	payload := BuildPushPayload(leadFields, nil)
	if payload["nameFull"] != "Nguyễn Văn A" {
		t.Errorf("name phải đảo về nameFull, nhận %v", payload["nameFull"])
	}
	if payload["phone"] != "84912345678" {
		t.Errorf("phone đảo sai: %v", payload["phone"])
	}
	if _, ok := payload["email"]; ok {
		t.Error("Field nil không được đưa vào payload")
	}
}

func TestEvoMember_UnmarshalGiuRaw(t *testing.T) {
	raw := `{"idMember":"evo-9","updatedAt":"2026-08-20T10:00:00Z","nameFull":"B","customField":42}`

	var member EvoMember
	if err := json.Unmarshal([]byte(raw), &member); err != nil {
		t.Fatalf("Decode member thất bại: %v", err)
	}
	if member.ID != "evo-9" {
		t.Errorf("ID decode sai: %q", member.ID)
	}
	if member.UpdatedAt != "2026-08-20T10:00:00Z" {
		t.Errorf("UpdatedAt decode sai: %q", member.UpdatedAt)
	}
	if member.Raw["customField"] != float64(42) {
		t.Errorf("Raw phải giữ toàn bộ payload gốc, customField = %v", member.Raw["customField"])
	}
}
