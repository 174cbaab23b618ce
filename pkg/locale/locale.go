// Package locale holds the message catalog for every player-visible line the
// engine writes. Keys are the Simplified Chinese originals; English is
// registered as a translation.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is the language used when a session does not pick one.
var Default = language.SimplifiedChinese

var supported = language.NewMatcher([]language.Tag{
	language.SimplifiedChinese,
	language.English,
})

const (
	PhaseMorning   = "辰时 (清晨)"
	PhaseAfternoon = "未时 (午后)"
	PhaseEvening   = "酉时 (黄昏)"
	PhaseNight     = "子时 (深夜)"

	LabelWhisper     = "传音入密"
	LabelBroadcast   = "江湖传闻"
	LabelFabricate   = "散布谣言"
	LabelInception   = "心魔植入"
	LabelInterrogate = "拷问信息"

	TargetEveryone = "全体侠士"
	TargetUnknown  = "未知目标"

	ActionRecorded = "玩家对 【%s】 施展了 %s: \"%s\"。"
	Interrogated   = "你拷问了 %s。对方神情变得 %s。"
	ConfessionCard = "[口供] %s: %s"
	SecretCard     = "%s的秘密: %s"
	NarrativeLine  = "%s (行动: %s)"
	MartialGrowth  = "%s 武学精进！武力值提升了 %d 点。"
	GameStarted    = "稻香村风云际会。目标: %s"

	ObjectiveMatchmaker = "红娘任务：撮合 %s 和 %s 结为神仙眷侣 (关系: Lover)。"
	ObjectiveDetective  = "侦探任务：找出恶人谷卧底。%s 是潜伏者。通过散布流言炸出真相，并广播正确的指控。"
	ObjectiveChaos      = "混乱任务：在%d天内让超过50%%的侠客重伤不治、关入大牢或退出江湖。"
	ObjectiveSandbox    = "自由沙盒模式。观察江湖百态。"
	ObjectiveNoTargets  = "无人可选"

	ErrGeneration = "江湖路远，服务器暂未响应。请重试。"
	ErrSimulation = "服务器打坐中，请稍后再试。"

	NewspaperTitle = "稻香日报"
)

var english = map[string]string{
	PhaseMorning:   "Morning",
	PhaseAfternoon: "Afternoon",
	PhaseEvening:   "Evening",
	PhaseNight:     "Night",

	LabelWhisper:     "Whisper",
	LabelBroadcast:   "Broadcast",
	LabelFabricate:   "Fabricate Rumor",
	LabelInception:   "Plant Inner Demon",
	LabelInterrogate: "Interrogate",

	TargetEveryone: "Everyone",
	TargetUnknown:  "Unknown target",

	ActionRecorded: "The player used %[2]s on [%[1]s]: \"%[3]s\".",
	Interrogated:   "You interrogated %s. Their expression turned %s.",
	ConfessionCard: "[Confession] %s: %s",
	SecretCard:     "%s's secret: %s",
	NarrativeLine:  "%s (Action: %s)",
	MartialGrowth:  "%s's martial arts improved! Martial power +%d.",
	GameStarted:    "The village stirs. Objective: %s",

	ObjectiveMatchmaker: "Matchmaker: bring %s and %s together as lovers (relationship: Lover).",
	ObjectiveDetective:  "Detective: expose the spy. %s is the infiltrator. Spread rumors to flush out the truth and broadcast the right accusation.",
	ObjectiveChaos:      "Chaos: within %d days, get more than 50%% of the villagers killed, jailed or driven out.",
	ObjectiveSandbox:    "Sandbox mode. Watch the world unfold.",
	ObjectiveNoTargets:  "nobody",

	ErrGeneration: "The road is long and the server is silent. Please retry.",
	ErrSimulation: "The server is meditating. Please try again later.",

	NewspaperTitle: "Rice Fragrance Daily",
}

func init() {
	for key, en := range english {
		_ = message.SetString(language.SimplifiedChinese, key, key)
		_ = message.SetString(language.English, key, en)
	}
}

// Printer returns a printer for the given BCP 47 tag. Unknown or empty tags
// fall back to Simplified Chinese.
func Printer(tag string) *message.Printer {
	return message.NewPrinter(Match(tag))
}

// Match resolves tag to one of the supported languages.
func Match(tag string) language.Tag {
	if tag == "" {
		return Default
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	_, idx, conf := supported.Match(t)
	if conf == language.No {
		return Default
	}
	if idx == 1 {
		return language.English
	}
	return language.SimplifiedChinese
}
