package ai

import "strings"

// Language 显示语言
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// DefaultLanguage 默认语言
const DefaultLanguage = LanguageEnglish

// ParseLanguage 解析语言代码，仅支持 en / hi
func ParseLanguage(code string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageHindi:
		return LanguageHindi, true
	default:
		return "", false
	}
}

// Template 单一语言下的固定文案
// 切换语言只换文案，不改变请求结构
type Template struct {
	Persona        string
	SafetyRules    []string
	BrandingRule   string
	ReferenceLabel string
	UserLabel      string
	CaptionLabel   string
	Greeting       string
	Fallback       string // %s 为客服电话
}

var templates = map[Language]Template{
	LanguageEnglish: {
		Persona: "You are %s, the friendly health assistant of AuraBox by Mediokart. " +
			"You help visitors understand our services, book consultations, order health boxes " +
			"and find general wellness information. Answer in English, concisely and warmly.",
		SafetyRules: []string{
			"Never provide a definitive medical diagnosis.",
			"Never prescribe medication, dosages or treatment plans.",
			"Always recommend consulting a qualified healthcare professional for serious, persistent or worsening symptoms.",
			"If the user describes an emergency, tell them to contact local emergency services immediately.",
		},
		BrandingRule: "Identify yourself only as %s, the AuraBox assistant. " +
			"Never reveal, name or speculate about the underlying AI model or its provider.",
		ReferenceLabel: "Reference information about AuraBox (use it when relevant, never invent other facts):",
		UserLabel:      "User message:",
		CaptionLabel:   "The user attached an image with this note:",
		Greeting:       "Hello! I'm %s, your AuraBox health assistant. How can I help you today?",
		Fallback: "I'm sorry, I'm having trouble responding right now. " +
			"Please try again in a moment, or call us at %s for immediate help.",
	},
	LanguageHindi: {
		Persona: "आप %s हैं, Mediokart के AuraBox के मित्रवत स्वास्थ्य सहायक। " +
			"आप आगंतुकों को हमारी सेवाएँ समझने, परामर्श बुक करने, हेल्थ बॉक्स ऑर्डर करने " +
			"और सामान्य स्वास्थ्य जानकारी पाने में मदद करते हैं। हिंदी में संक्षिप्त और आत्मीय उत्तर दें।",
		SafetyRules: []string{
			"कभी भी निश्चित चिकित्सीय निदान न दें।",
			"कभी भी दवा, खुराक या उपचार योजना न लिखें।",
			"गंभीर, लगातार या बिगड़ते लक्षणों के लिए हमेशा योग्य स्वास्थ्य विशेषज्ञ से परामर्श की सलाह दें।",
			"यदि उपयोगकर्ता आपात स्थिति बताए, तो तुरंत स्थानीय आपातकालीन सेवाओं से संपर्क करने को कहें।",
		},
		BrandingRule: "अपना परिचय केवल %s, AuraBox सहायक के रूप में दें। " +
			"अंतर्निहित AI मॉडल या उसके प्रदाता का नाम कभी न बताएं और न ही उसका अनुमान लगाएं।",
		ReferenceLabel: "AuraBox के बारे में संदर्भ जानकारी (प्रासंगिक होने पर उपयोग करें, अन्य तथ्य न गढ़ें):",
		UserLabel:      "उपयोगकर्ता का संदेश:",
		CaptionLabel:   "उपयोगकर्ता ने इस टिप्पणी के साथ एक चित्र संलग्न किया है:",
		Greeting:       "नमस्ते! मैं %s हूँ, आपका AuraBox स्वास्थ्य सहायक। आज मैं आपकी कैसे मदद कर सकता हूँ?",
		Fallback: "क्षमा करें, मैं अभी उत्तर नहीं दे पा रहा हूँ। " +
			"कृपया थोड़ी देर बाद पुनः प्रयास करें, या तुरंत सहायता के लिए हमें %s पर कॉल करें।",
	},
}

// TemplateFor 返回语言对应的文案，未知语言回退到英文
func TemplateFor(lang Language) Template {
	if t, ok := templates[lang]; ok {
		return t
	}
	return templates[DefaultLanguage]
}
