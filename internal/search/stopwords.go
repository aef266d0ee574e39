package search

// frenchStopwords are the French words ignored by the search box.
var frenchStopwords = []string{
	"a", "à", "afin", "ai", "aie", "ainsi", "alors", "après", "as", "au",
	"aucun", "aucune", "aussi", "autre", "autres", "aux", "avaient", "avais",
	"avait", "avant", "avec", "avez", "avoir", "avons", "ayant",
	"c", "ça", "car", "ce", "ceci", "cela", "celle", "celles", "celui", "cependant",
	"ces", "cet", "cette", "ceux", "chaque", "chez", "comme", "comment",
	"d", "dans", "de", "des", "donc", "dont", "du",
	"elle", "elles", "en", "encore", "entre", "es", "est", "et", "étaient",
	"était", "été", "être", "eu", "eux",
	"fait", "font",
	"il", "ils",
	"j", "je", "jusqu",
	"l", "la", "le", "les", "leur", "leurs", "lui",
	"m", "ma", "mais", "me", "même", "mes", "moi", "mon",
	"n", "ne", "ni", "nos", "notre", "nous",
	"on", "ont", "ou", "où",
	"par", "parce", "pas", "peu", "peut", "plus", "pour", "pourquoi",
	"qu", "quand", "que", "quel", "quelle", "quelles", "quels", "qui", "quoi",
	"s", "sa", "sans", "se", "ses", "si", "sien", "son", "sont", "sous", "suis", "sur",
	"t", "ta", "te", "tes", "toi", "ton", "tous", "tout", "toute", "toutes", "très", "tu",
	"un", "une",
	"vos", "votre", "vous",
	"y",
}

// FrenchStopwords returns a fresh set of the French stopwords.
func FrenchStopwords() map[string]struct{} {
	set := make(map[string]struct{}, len(frenchStopwords))
	for _, word := range frenchStopwords {
		set[word] = struct{}{}
	}
	return set
}
