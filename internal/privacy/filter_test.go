package privacy

import (
	"regexp"
	"strings"
	"testing"
)

func TestSanitizePhone(t *testing.T) {
	result := Sanitize("联系电话13812345678，期待沟通")

	if strings.Contains(result.Text, "13812345678") {
		t.Fatalf("phone number survived redaction: %s", result.Text)
	}

	if !strings.Contains(result.Text, "[手机号已隐藏]") {
		t.Fatalf("expected phone placeholder, got: %s", result.Text)
	}

	if regexp.MustCompile(`1[3-9]\d{9}`).MatchString(result.Text) {
		t.Fatalf("output still matches the mobile pattern: %s", result.Text)
	}

	if len(result.Redacted) != 1 || result.Redacted[0] != KindPhone {
		t.Fatalf("unexpected redacted kinds: %v", result.Redacted)
	}
}

func TestSanitizeAllKinds(t *testing.T) {
	cases := []struct {
		name        string
		input       string
		placeholder string
		kind        Kind
	}{
		{"email", "邮箱 zhangsan@example.com", "[邮箱已隐藏]", KindEmail},
		{"id card 18", "身份证 11010520010107803X", "[身份证号已隐藏]", KindIDCard},
		{"id card 15", "身份证 110105900307803", "[身份证号已隐藏]", KindIDCard},
		{"address", "住址：广东省深圳市南山区科技园南路15号3栋", "[详细地址已隐藏]", KindAddress},
		{"passport", "护照 E12345678", "[护照号已隐藏]", KindPassport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Sanitize(tc.input)

			if !strings.Contains(result.Text, tc.placeholder) {
				t.Fatalf("expected %s in output, got: %s", tc.placeholder, result.Text)
			}

			found := false
			for _, kind := range result.Redacted {
				if kind == tc.kind {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected kind %s in %v", tc.kind, result.Redacted)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"联系电话13812345678，邮箱 zhangsan@example.com",
		"身份证 11010520010107803X，卡号 6222020200112233445",
		"无敏感信息的普通简历内容，五年数据分析经验。",
		"",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once.Text)

		if twice.Text != once.Text {
			t.Fatalf("sanitize is not idempotent:\nonce:  %s\ntwice: %s", once.Text, twice.Text)
		}

		if twice.Modified() {
			t.Fatalf("second pass reported modifications for: %s", once.Text)
		}
	}
}

func TestSanitizeLongDigitRunPrecedence(t *testing.T) {
	// The ID-card pass runs before the card-number pass and its pattern
	// matches any run of 15+ digits, so long card numbers are consumed by it.
	// The pass order is deliberate: without it a single number could be
	// redacted twice.
	result := Sanitize("卡号 6222020200112233445")

	if !strings.Contains(result.Text, "[身份证号已隐藏]") {
		t.Fatalf("expected the ID pass to consume the long digit run: %s", result.Text)
	}

	if strings.Contains(result.Text, "6222020200112233") {
		t.Fatalf("card number survived redaction: %s", result.Text)
	}
}

func TestSanitizeKeepsShortDigitRuns(t *testing.T) {
	result := Sanitize("2019年毕业，项目编号4001234567890")

	if !strings.Contains(result.Text, "2019") {
		t.Fatalf("year was redacted: %s", result.Text)
	}

	// 13 digits: matches the candidate pattern but is below the 16-digit
	// replacement threshold.
	if !strings.Contains(result.Text, "4001234567890") {
		t.Fatalf("13-digit run should survive: %s", result.Text)
	}
}

func TestDetect(t *testing.T) {
	kinds := Detect("电话13812345678 邮箱a@b.cn")

	if len(kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %v", kinds)
	}

	if kinds[0] != KindPhone || kinds[1] != KindEmail {
		t.Fatalf("unexpected kinds: %v", kinds)
	}

	if got := Detect("干净的文本"); got != nil {
		t.Fatalf("expected nil for clean text, got %v", got)
	}
}
