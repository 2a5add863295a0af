package translate

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// SkipList holds brands, technical terms and units that machine translation
// tends to mangle. They are glossed from Glossary instead.
var SkipList = set(
	// brands
	"philips", "hue", "xiaomi", "govee", "nanoleaf", "lifx", "tp-link", "kasa",
	"osram", "ikea", "amazon", "alexa", "google", "apple", "homekit",
	// technology
	"led", "rgb", "rgbw", "wifi", "bluetooth", "zigbee", "usb", "app",
	"ios", "android", "wlan", "smart", "home", "dimmbar", "dimmer",
	// sockets and ratings
	"e27", "e14", "gu10", "mr16", "g9", "g4", "cct", "lumen", "watt",
	"volt", "ip65", "ip44", "ip20", "ac", "dc", "uvp", "ovp",
	// common listing words
	"set", "kit", "pack", "bundle", "new", "original", "genuine",
	"white", "black", "color", "colour", "warm", "cool", "bright",
)

var Glossary = map[string]string{
	"led":       "LED灯",
	"rgb":       "RGB彩色",
	"rgbw":      "RGBW彩色",
	"wifi":      "WiFi无线",
	"bluetooth": "蓝牙",
	"smart":     "智能",
	"home":      "家居",
	"dimmbar":   "可调光",
	"dimmer":    "调光器",
	"philips":   "飞利浦",
	"hue":       "飞利浦Hue",
	"xiaomi":    "小米",
	"govee":     "Govee",
	"nanoleaf":  "Nanoleaf",
	"lifx":      "LIFX",
	"osram":     "欧司朗",
	"ikea":      "宜家",
	"amazon":    "亚马逊",
	"alexa":     "Alexa",
	"google":    "谷歌",
	"apple":     "苹果",
	"homekit":   "HomeKit",
	"e27":       "E27螺口",
	"e14":       "E14螺口",
	"gu10":      "GU10插脚",
	"mr16":      "MR16射灯",
	"watt":      "瓦特",
	"lumen":     "流明",
	"warm":      "暖光",
	"cool":      "冷光",
	"white":     "白色",
	"black":     "黑色",
	"color":     "彩色",
	"set":       "套装",
	"kit":       "套件",
	"pack":      "包装",
	"new":       "新品",
	"original":  "原装",
}

// SimpleGlossary is the smaller lighting-focused table. Its keys double as
// the skip list of the simple profile.
var SimpleGlossary = map[string]string{
	"led":       "LED灯",
	"rgb":       "RGB彩色",
	"smart":     "智能",
	"home":      "家居",
	"philips":   "飞利浦",
	"hue":       "色调",
	"light":     "灯光",
	"bulb":      "灯泡",
	"strip":     "灯带",
	"wifi":      "WiFi",
	"bluetooth": "蓝牙",
	"dimmer":    "调光器",
	"white":     "白色",
	"color":     "彩色",
	"warm":      "暖光",
	"cool":      "冷光",
	"bright":    "明亮",
	"set":       "套装",
	"kit":       "套件",
	"pack":      "包装",
	"new":       "新品",
	"original":  "原装",
}

// Canonical tokens are upper-cased for their English form.
var (
	Canonical      = set("led", "rgb", "rgbw", "wifi", "usb")
	CanonicalBasic = set("led", "rgb", "wifi", "usb")
)

// KeysOf returns the key set of a glossary.
func KeysOf(g map[string]string) map[string]struct{} {
	m := make(map[string]struct{}, len(g))
	for k := range g {
		m[k] = struct{}{}
	}
	return m
}
