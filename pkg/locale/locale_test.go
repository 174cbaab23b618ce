package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		tag  string
		want language.Tag
	}{
		{"", language.SimplifiedChinese},
		{"zh-Hans", language.SimplifiedChinese},
		{"zh-CN", language.SimplifiedChinese},
		{"en", language.English},
		{"en-US", language.English},
		{"not a tag!", language.SimplifiedChinese},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.tag))
		})
	}
}

func TestPrinter_Chinese(t *testing.T) {
	p := Printer("")
	assert.Equal(t, `玩家对 【阿青】 施展了 传音入密: "快跑"。`,
		p.Sprintf(ActionRecorded, "阿青", p.Sprintf(LabelWhisper), "快跑"))
	assert.Equal(t, "混乱任务：在7天内让超过50%的侠客重伤不治、关入大牢或退出江湖。",
		p.Sprintf(ObjectiveChaos, 7))
	assert.Equal(t, "张三 武学精进！武力值提升了 5 点。", p.Sprintf(MartialGrowth, "张三", 5))
}

func TestPrinter_English(t *testing.T) {
	p := Printer("en")
	assert.Equal(t, `The player used Whisper on [Ah Qing]: "run".`,
		p.Sprintf(ActionRecorded, "Ah Qing", p.Sprintf(LabelWhisper), "run"))
	assert.Equal(t, "Night", p.Sprintf(PhaseNight))
}
