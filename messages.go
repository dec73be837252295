package main

// Messages holds the user-facing strings for one UI language
type Messages struct {
	Title            string
	CurrentDate      string
	ResultsFound     string // takes the result count
	NoResults        string
	GeneratedArticle string
	PleaseEnter      string
	APIKeyMissing    string
	GenerationFailed string
	History          string
	NoHistory        string
}

var translations = map[string]Messages{
	LangEnglish: {
		Title:            "News Article Search",
		CurrentDate:      "Current Date",
		ResultsFound:     "%d results found",
		NoResults:        "No articles matched.",
		GeneratedArticle: "Generated Article:",
		PleaseEnter:      "Please enter a prompt.",
		APIKeyMissing:    "API key not found. Please set it in the secrets file or environment variables.",
		GenerationFailed: "Failed to generate text: ",
		History:          "Generation History",
		NoHistory:        "No generation history yet.",
	},
	LangGujarati: {
		Title:            "સમાચાર લેખ શોધ",
		CurrentDate:      "વર્તમાન તારીખ",
		ResultsFound:     "%d પરિણામો મળ્યા",
		NoResults:        "કોઈ લેખ મળ્યો નથી.",
		GeneratedArticle: "જનરેટ થયેલ લેખ:",
		PleaseEnter:      "કૃપા કરીને પ્રોમ્પ્ટ દાખલ કરો.",
		APIKeyMissing:    "API કી મળી નથી. કૃપા કરીને તેને સેટ કરો.",
		GenerationFailed: "ટેક્સ્ટ જનરેટ કરવામાં નિષ્ફળ: ",
		History:          "જનરેશન ઇતિહાસ",
		NoHistory:        "હજુ સુધી કોઈ જનરેશન ઇતિહાસ નથી.",
	},
}

// MessagesFor returns the strings for lang, falling back to English
func MessagesFor(lang string) Messages {
	if m, ok := translations[lang]; ok {
		return m
	}
	return translations[LangEnglish]
}
