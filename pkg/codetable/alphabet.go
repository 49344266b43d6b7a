package codetable

// shared holds the letters whose Latin and Cyrillic forms share one code in every variant.
var shared = []entry{
	{".-", []rune{'a', 'а'}},
	{"-...", []rune{'b', 'б'}},
	{"-.-.", []rune{'c', 'ц'}},
	{"-..", []rune{'d', 'д'}},
	{".", []rune{'e', 'е', 'ё'}},
	{"..-.", []rune{'f', 'ф'}},
	{"--.", []rune{'g', 'г'}},
	{"....", []rune{'h', 'х'}},
	{"..", []rune{'i', 'и'}},
	{".---", []rune{'j', 'й'}},
	{"-.-", []rune{'k', 'к'}},
	{".-..", []rune{'l', 'л'}},
	{"--", []rune{'m', 'м'}},
	{"-.", []rune{'n', 'н'}},
	{"---", []rune{'o', 'о'}},
	{".--.", []rune{'p', 'п'}},
	{"--.-", []rune{'q', 'щ'}},
	{".-.", []rune{'r', 'р'}},
	{"...", []rune{'s', 'с'}},
	{"-", []rune{'t', 'т'}},
	{"..-", []rune{'u', 'у'}},
	{"-..-", []rune{'x', 'ь'}},
	{"-.--", []rune{'y', 'ы'}},
	{"--..", []rune{'z', 'з'}},
}

var cyrillic = []entry{
	{".--", []rune{'в'}},
	{"...-", []rune{'ж'}},
	{"---.", []rune{'ч'}},
	{"----", []rune{'ш'}},
	{"--.--", []rune{'ъ'}},
	{"..-..", []rune{'э'}},
	{"..--", []rune{'ю'}},
	{".-.-", []rune{'я'}},
}

var digits = []entry{
	{"-----", []rune{'0'}},
	{".----", []rune{'1'}},
	{"..---", []rune{'2'}},
	{"...--", []rune{'3'}},
	{"....-", []rune{'4'}},
	{".....", []rune{'5'}},
	{"-....", []rune{'6'}},
	{"--...", []rune{'7'}},
	{"---..", []rune{'8'}},
	{"----.", []rune{'9'}},
}

// "№" shares "--.--" with "ъ" but is kept as its own entry.
var punctuation = []entry{
	{"--..--", []rune{','}},
	{".-.-.-", []rune{'.'}},
	{"..--..", []rune{'?'}},
	{".----.", []rune{'\''}},
	{"-.-.--", []rune{'!'}},
	{"-..-.", []rune{'/'}},
	{"-.--.", []rune{'('}},
	{"-.--.-", []rune{')'}},
	{".-...", []rune{'&'}},
	{"---...", []rune{':'}},
	{"-.-.-.", []rune{';'}},
	{"-...-", []rune{'='}},
	{".-.-.", []rune{'+'}},
	{"-....-", []rune{'-'}},
	{"..--.-", []rune{'_'}},
	{".-..-.", []rune{'"'}},
	{"...-..-", []rune{'$'}},
	{".--.-.", []rune{'@'}},
	{"--.--", []rune{'№'}},
}

func concat(groups ...[]entry) []entry {
	var out []entry
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Default is the historical table: Latin "v" aliases Cyrillic "в", Latin "w" aliases "ж".
var Default = build("default", concat(
	shared,
	[]entry{
		{".--", []rune{'v'}},
		{"...-", []rune{'w'}},
	},
	cyrillic,
	digits,
	punctuation,
))

// ITU assigns Latin "v" and "w" per ITU-R M.1677-1.
var ITU = build("itu", concat(
	shared,
	[]entry{
		{"...-", []rune{'v'}},
		{".--", []rune{'w'}},
	},
	cyrillic,
	digits,
	punctuation,
))
