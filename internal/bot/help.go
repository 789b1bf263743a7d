package bot

import "zonebot/internal/bus"

const helpText = "**Time Bot Help**\n" +
	"\n" +
	"__Auto-localize__: type a message like `lets play at 12 nzdt` and I will repost the same sentence with a localized time.\n" +
	"\n" +
	"__~time__\n" +
	"`~time` → show current times in NZ, Sydney, Brisbane, Perth, LA, NY, London.\n" +
	"`~time 12 nzdt` or `~time 6:15 pm aedt` → convert across those zones.\n" +
	"\n" +
	"__~event__\n" +
	"`~event 6:15 pm nzdt --name Valorant scrims [--thread]` → schedule with 30-minute, 15-minute, and start reminders.\n" +
	"`~events` → list upcoming events.\n" +
	"`~cancel <id>` → cancel a scheduled event.\n" +
	"\n" +
	"Notes:\n" +
	"- Timezones understood: NZDT/NZST, AEDT/AEST, ACDT/ACST, AWST, PST/PDT, MST/MDT, CST/CDT, EST/EDT, UTC/GMT, BST, JST.\n" +
	"- Bot messages will not ping anyone.\n"

func (r *Router) cmdHelp(msg bus.InboundMessage) {
	r.reply(msg, helpText)
}
