package keywords

// stopwords is the filter list applied before frequency counting. English
// function words plus terms that dominate any research paper without
// carrying topical signal.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "day": {}, "get": {},
	"has": {}, "him": {}, "his": {}, "how": {}, "man": {}, "new": {},
	"now": {}, "old": {}, "see": {}, "two": {}, "way": {}, "who": {},
	"its": {}, "did": {}, "yes": {}, "she": {}, "may": {}, "use": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {},
	"will": {}, "would": {}, "there": {}, "their": {}, "what": {},
	"about": {}, "which": {}, "when": {}, "were": {}, "been": {},
	"have": {}, "more": {}, "also": {}, "these": {}, "than": {},
	"then": {}, "them": {}, "some": {}, "such": {}, "into": {},
	"only": {}, "other": {}, "each": {}, "between": {}, "both": {},
	"during": {}, "where": {}, "while": {}, "after": {}, "before": {},
	"under": {}, "over": {}, "most": {}, "within": {}, "upon": {},
	"however": {}, "although": {}, "because": {}, "therefore": {},
	"thus": {}, "hence": {}, "among": {}, "against": {}, "through": {},
	"figure": {}, "table": {}, "page": {}, "section": {}, "chapter": {},
	"study": {}, "studies": {}, "data": {}, "results": {}, "result": {},
	"using": {}, "used": {}, "based": {}, "shown": {}, "found": {},
	"given": {}, "value": {}, "values": {}, "number": {}, "total": {},
	"mean": {}, "percent": {}, "year": {}, "years": {}, "area": {},
	"areas": {}, "case": {}, "cases": {}, "method": {}, "methods": {},
}
