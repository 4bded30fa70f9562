package emotion

// AllGenresCode is the sentinel genre code a record carries to mean
// "every genre".
const AllGenresCode = 0

// allTagCode is the internal code of the single tag shown for AllGenresCode.
const allTagCode = -1

// Tag is a resolved genre chip.
type Tag struct {
	Code  int
	Label string
}

var genreLabels = map[int]string{
	allTagCode: "ALL",
	1:          "COMEDY",
	2:          "ROMANCE",
	3:          "ACTION",
	4:          "THRILLER",
	5:          "MYSTERY",
	6:          "HORROR",
	7:          "SF",
	8:          "FANTASY",
	9:          "FAMILY",
	10:         "ETC",
}

// etcCode is used for codes the client has no label for.
const etcCode = 10

// GenreTag resolves one genre code. Unknown codes resolve to the ETC tag.
func GenreTag(code int) Tag {
	if label, ok := genreLabels[code]; ok {
		return Tag{Code: code, Label: label}
	}
	return Tag{Code: etcCode, Label: genreLabels[etcCode]}
}

// ResolveTags maps genre codes to tags. If any code is AllGenresCode the
// result is the single ALL tag; otherwise order and duplicates follow the
// input. The result is always a fresh slice.
func ResolveTags(genres []int) []Tag {
	for _, code := range genres {
		if code == AllGenresCode {
			return []Tag{GenreTag(allTagCode)}
		}
	}
	tags := make([]Tag, 0, len(genres))
	for _, code := range genres {
		tags = append(tags, GenreTag(code))
	}
	return tags
}
