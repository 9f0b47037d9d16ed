package unicodeprops

// Property and value aliases, following PropertyAliases.txt and PropertyValueAliases.txt as restricted by
// ECMA-262's tables of non-binary and binary Unicode properties. Matching is case-sensitive and does not
// apply loose matching, as ECMAScript requires.

var propertyAliases = map[string]string{
	"General_Category":  "General_Category",
	"gc":                "General_Category",
	"Script":            "Script",
	"sc":                "Script",
	"Script_Extensions": "Script_Extensions",
	"scx":               "Script_Extensions",
}

var binaryAliases = map[string]string{
	"AHex":    "ASCII_Hex_Digit",
	"Alpha":   "Alphabetic",
	"Bidi_C":  "Bidi_Control",
	"Dep":     "Deprecated",
	"Dia":     "Diacritic",
	"Ext":     "Extender",
	"Gr_Ext":  "Grapheme_Extend",
	"Hex":     "Hex_Digit",
	"IDC":     "ID_Continue",
	"IDS":     "ID_Start",
	"IDSB":    "IDS_Binary_Operator",
	"IDST":    "IDS_Trinary_Operator",
	"Ideo":    "Ideographic",
	"Join_C":  "Join_Control",
	"LOE":     "Logical_Order_Exception",
	"Lower":   "Lowercase",
	"NChar":   "Noncharacter_Code_Point",
	"Pat_Syn": "Pattern_Syntax",
	"Pat_WS":  "Pattern_White_Space",
	"QMark":   "Quotation_Mark",
	"RI":      "Regional_Indicator",
	"SD":      "Soft_Dotted",
	"STerm":   "Sentence_Terminal",
	"Term":    "Terminal_Punctuation",
	"UIdeo":   "Unified_Ideograph",
	"Upper":   "Uppercase",
	"VS":      "Variation_Selector",
	"space":   "White_Space",
}

// generalCategoryAliases maps every accepted General_Category spelling to a key of unicode.Categories, or
// to one of the synthetic values handled in categoryTable.
var generalCategoryAliases = map[string]string{
	"C": "C", "Other": "C",
	"Cc": "Cc", "Control": "Cc", "cntrl": "Cc",
	"Cf": "Cf", "Format": "Cf",
	"Cn": "Cn", "Unassigned": "Cn",
	"Co": "Co", "Private_Use": "Co",
	"Cs": "Cs", "Surrogate": "Cs",
	"L": "L", "Letter": "L",
	"LC": "LC", "Cased_Letter": "LC",
	"Ll": "Ll", "Lowercase_Letter": "Ll",
	"Lm": "Lm", "Modifier_Letter": "Lm",
	"Lo": "Lo", "Other_Letter": "Lo",
	"Lt": "Lt", "Titlecase_Letter": "Lt",
	"Lu": "Lu", "Uppercase_Letter": "Lu",
	"M": "M", "Mark": "M", "Combining_Mark": "M",
	"Mc": "Mc", "Spacing_Mark": "Mc",
	"Me": "Me", "Enclosing_Mark": "Me",
	"Mn": "Mn", "Nonspacing_Mark": "Mn",
	"N": "N", "Number": "N",
	"Nd": "Nd", "Decimal_Number": "Nd", "digit": "Nd",
	"Nl": "Nl", "Letter_Number": "Nl",
	"No": "No", "Other_Number": "No",
	"P": "P", "Punctuation": "P", "punct": "P",
	"Pc": "Pc", "Connector_Punctuation": "Pc",
	"Pd": "Pd", "Dash_Punctuation": "Pd",
	"Pe": "Pe", "Close_Punctuation": "Pe",
	"Pf": "Pf", "Final_Punctuation": "Pf",
	"Pi": "Pi", "Initial_Punctuation": "Pi",
	"Po": "Po", "Other_Punctuation": "Po",
	"Ps": "Ps", "Open_Punctuation": "Ps",
	"S": "S", "Symbol": "S",
	"Sc": "Sc", "Currency_Symbol": "Sc",
	"Sk": "Sk", "Modifier_Symbol": "Sk",
	"Sm": "Sm", "Math_Symbol": "Sm",
	"So": "So", "Other_Symbol": "So",
	"Z": "Z", "Separator": "Z",
	"Zl": "Zl", "Line_Separator": "Zl",
	"Zp": "Zp", "Paragraph_Separator": "Zp",
	"Zs": "Zs", "Space_Separator": "Zs",
}

// scriptCodes maps ISO 15924 codes to the long names used as keys of unicode.Scripts
var scriptCodes = map[string]string{
	"Adlm": "Adlam", "Aghb": "Caucasian_Albanian", "Ahom": "Ahom", "Arab": "Arabic", "Armi": "Imperial_Aramaic",
	"Armn": "Armenian", "Avst": "Avestan", "Bali": "Balinese", "Bamu": "Bamum", "Bass": "Bassa_Vah",
	"Batk": "Batak", "Beng": "Bengali", "Bhks": "Bhaiksuki", "Bopo": "Bopomofo", "Brah": "Brahmi",
	"Brai": "Braille", "Bugi": "Buginese", "Buhd": "Buhid", "Cakm": "Chakma", "Cans": "Canadian_Aboriginal",
	"Cari": "Carian", "Cham": "Cham", "Cher": "Cherokee", "Chrs": "Chorasmian", "Copt": "Coptic",
	"Qaac": "Coptic", "Cpmn": "Cypro_Minoan", "Cprt": "Cypriot", "Cyrl": "Cyrillic", "Deva": "Devanagari",
	"Diak": "Dives_Akuru", "Dogr": "Dogra", "Dsrt": "Deseret", "Dupl": "Duployan", "Egyp": "Egyptian_Hieroglyphs",
	"Elba": "Elbasan", "Elym": "Elymaic", "Ethi": "Ethiopic", "Geor": "Georgian", "Glag": "Glagolitic",
	"Gong": "Gunjala_Gondi", "Gonm": "Masaram_Gondi", "Goth": "Gothic", "Gran": "Grantha", "Grek": "Greek",
	"Gujr": "Gujarati", "Guru": "Gurmukhi", "Hang": "Hangul", "Hani": "Han", "Hano": "Hanunoo",
	"Hatr": "Hatran", "Hebr": "Hebrew", "Hira": "Hiragana", "Hluw": "Anatolian_Hieroglyphs",
	"Hmng": "Pahawh_Hmong", "Hmnp": "Nyiakeng_Puachue_Hmong", "Hung": "Old_Hungarian", "Ital": "Old_Italic",
	"Java": "Javanese", "Kali": "Kayah_Li", "Kana": "Katakana", "Kawi": "Kawi", "Khar": "Kharoshthi",
	"Khmr": "Khmer", "Khoj": "Khojki", "Kits": "Khitan_Small_Script", "Knda": "Kannada", "Kthi": "Kaithi",
	"Lana": "Tai_Tham", "Laoo": "Lao", "Latn": "Latin", "Lepc": "Lepcha", "Limb": "Limbu", "Lina": "Linear_A",
	"Linb": "Linear_B", "Lisu": "Lisu", "Lyci": "Lycian", "Lydi": "Lydian", "Mahj": "Mahajani",
	"Maka": "Makasar", "Mand": "Mandaic", "Mani": "Manichaean", "Marc": "Marchen", "Medf": "Medefaidrin",
	"Mend": "Mende_Kikakui", "Merc": "Meroitic_Cursive", "Mero": "Meroitic_Hieroglyphs", "Mlym": "Malayalam",
	"Modi": "Modi", "Mong": "Mongolian", "Mroo": "Mro", "Mtei": "Meetei_Mayek", "Mult": "Multani",
	"Mymr": "Myanmar", "Nagm": "Nag_Mundari", "Nand": "Nandinagari", "Narb": "Old_North_Arabian",
	"Nbat": "Nabataean", "Newa": "Newa", "Nkoo": "Nko", "Nshu": "Nushu", "Ogam": "Ogham", "Olck": "Ol_Chiki",
	"Orkh": "Old_Turkic", "Orya": "Oriya", "Osge": "Osage", "Osma": "Osmanya", "Ougr": "Old_Uyghur",
	"Palm": "Palmyrene", "Pauc": "Pau_Cin_Hau", "Perm": "Old_Permic", "Phag": "Phags_Pa",
	"Phli": "Inscriptional_Pahlavi", "Phlp": "Psalter_Pahlavi", "Phnx": "Phoenician", "Plrd": "Miao",
	"Prti": "Inscriptional_Parthian", "Rjng": "Rejang", "Rohg": "Hanifi_Rohingya", "Runr": "Runic",
	"Samr": "Samaritan", "Sarb": "Old_South_Arabian", "Saur": "Saurashtra", "Sgnw": "SignWriting",
	"Shaw": "Shavian", "Shrd": "Sharada", "Sidd": "Siddham", "Sind": "Khudawadi", "Sinh": "Sinhala",
	"Sogd": "Sogdian", "Sogo": "Old_Sogdian", "Sora": "Sora_Sompeng", "Soyo": "Soyombo", "Sund": "Sundanese",
	"Sylo": "Syloti_Nagri", "Syrc": "Syriac", "Tagb": "Tagbanwa", "Takr": "Takri", "Tale": "Tai_Le",
	"Talu": "New_Tai_Lue", "Taml": "Tamil", "Tang": "Tangut", "Tavt": "Tai_Viet", "Telu": "Telugu",
	"Tfng": "Tifinagh", "Tglg": "Tagalog", "Thaa": "Thaana", "Thai": "Thai", "Tibt": "Tibetan",
	"Tirh": "Tirhuta", "Tnsa": "Tangsa", "Toto": "Toto", "Ugar": "Ugaritic", "Vaii": "Vai", "Vith": "Vithkuqi",
	"Wara": "Warang_Citi", "Wcho": "Wancho", "Xpeo": "Old_Persian", "Xsux": "Cuneiform", "Yezi": "Yezidi",
	"Yiii": "Yi", "Zanb": "Zanabazar_Square", "Zinh": "Inherited", "Qaai": "Inherited", "Zyyy": "Common",
}

// extendedScripts names every script for which Script_Extensions=X differs from Script=X: those that
// ScriptExtensions.txt lists through Unicode 15.1, plus Common and Inherited, which lose the code points
// listed there.
var extendedScripts = map[string]bool{
	"Adlam": true, "Arabic": true, "Armenian": true, "Bengali": true, "Bopomofo": true, "Buginese": true,
	"Buhid": true, "Chakma": true, "Common": true, "Coptic": true, "Cypriot": true, "Cypro_Minoan": true,
	"Cyrillic": true, "Devanagari": true, "Dogra": true, "Duployan": true, "Georgian": true,
	"Glagolitic": true, "Grantha": true, "Greek": true, "Gujarati": true, "Gunjala_Gondi": true,
	"Gurmukhi": true, "Han": true, "Hangul": true, "Hanifi_Rohingya": true, "Hanunoo": true, "Hebrew": true,
	"Hiragana": true, "Inherited": true, "Javanese": true, "Kaithi": true, "Kannada": true, "Katakana": true,
	"Kayah_Li": true, "Khojki": true, "Khudawadi": true, "Latin": true, "Limbu": true, "Linear_A": true,
	"Linear_B": true, "Mahajani": true, "Malayalam": true, "Mandaic": true, "Manichaean": true,
	"Masaram_Gondi": true, "Modi": true, "Mongolian": true, "Multani": true, "Myanmar": true,
	"Nandinagari": true, "Nko": true, "Old_Permic": true, "Old_Uyghur": true, "Oriya": true,
	"Phags_Pa": true, "Psalter_Pahlavi": true, "Sharada": true, "Sinhala": true, "Sogdian": true,
	"Syloti_Nagri": true, "Syriac": true, "Tagalog": true, "Tagbanwa": true, "Tai_Le": true, "Takri": true,
	"Tamil": true, "Telugu": true, "Thaana": true, "Tirhuta": true, "Yezidi": true, "Yi": true,
}
