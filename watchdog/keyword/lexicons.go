package keyword

// Names of the reference sets which can override the default lexicons (see setstore)
const (
	SetSuspiciousPhrases   = "suspicious-phrases"
	SetHypeKeywords        = "hype-keywords"
	SetFearKeywords        = "fear-keywords"
	SetUrgencyWords        = "urgency-words"
	SetUnverifiedRefs      = "unverified-refs"
	SetBotUsernamePatterns = "bot-username-patterns"
)

var DefaultSuspiciousPhrases = []string{
	"moon",
	"pump",
	"to the moon",
	"shill",
	"buy now",
	"rekt",
	"moonshot",
	"partnership",
	"confirmed",
}

var DefaultHypeKeywords = []string{
	"moon",
	"pump",
	"dump",
	"to the moon",
	"shill",
	"buy now",
	"sell now",
	"rug",
	"pull",
	"whale",
	"partnership",
	"confirmed",
	"announcement",
	"big news",
	"🚀",
	"📈",
	"🔥",
	"💎",
	"👐",
}

var DefaultFearKeywords = []string{
	"scam",
	"fake",
	"avoid",
	"warning",
	"danger",
	"lost",
	"stolen",
	"hack",
	"exploit",
	"⚠️",
	"🚨",
	"💀",
}

var DefaultUrgencyWords = []string{
	"urgent",
	"now",
	"hurry",
	"last chance",
	"don't miss",
}

var DefaultUnverifiedRefs = []string{
	"breaking",
	"insider",
	"confirmed",
	"exclusive",
}

// Regular expressions over lower-cased usernames which suggest generated bot accounts
var DefaultBotUsernamePatterns = []string{
	`crypto.*\d{2,}`,
	`whale.*\d+`,
	`moon.*\d{4}`,
	`trader.*\d+`,
	`alpha.*\d+`,
	`investor.*\d+`,
	`hodl.*\d+`,
	`\d{4}$`,
}
