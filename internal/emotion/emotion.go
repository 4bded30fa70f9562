// Package emotion maps the small integer codes carried by dream records to
// presentation data: backgrounds, icons and genre tags.
package emotion

// Category is the emotion attached to a record.
type Category int

const (
	// All is the fallback for every code outside 1..5.
	All Category = iota
	Joy
	Sad
	Scary
	Strange
	Shy
)

// Asset names a drawable owned by the rendering layer.
type Asset string

// FromCode resolves an emotion code. Codes 1..5 map to Joy..Shy in order,
// anything else is All.
func FromCode(code int) Category {
	switch code {
	case 1:
		return Joy
	case 2:
		return Sad
	case 3:
		return Scary
	case 4:
		return Strange
	case 5:
		return Shy
	default:
		return All
	}
}

func (c Category) String() string {
	switch c {
	case Joy:
		return "JOY"
	case Sad:
		return "SAD"
	case Scary:
		return "SCARY"
	case Strange:
		return "STRANGE"
	case Shy:
		return "SHY"
	case All:
		return "ALL"
	}
	return "ALL"
}

// Background returns the detail sheet background for c.
func (c Category) Background() Asset {
	switch c {
	case Joy:
		return "background_yellow"
	case Sad:
		return "background_blue"
	case Scary:
		return "background_red"
	case Strange:
		return "background_purple"
	case Shy:
		return "background_pink"
	case All:
		return "background_white"
	}
	return "background_white"
}

// Icon returns the large feeling icon for c.
func (c Category) Icon() Asset {
	switch c {
	case Joy:
		return "feeling_l_joy"
	case Sad:
		return "feeling_l_sad"
	case Scary:
		return "feeling_l_scary"
	case Strange:
		return "feeling_l_strange"
	case Shy:
		return "feeling_l_shy"
	case All:
		return "feeling_l_blank"
	}
	return "feeling_l_blank"
}

// CardBackground returns the home feed card background for c.
func (c Category) CardBackground() Asset {
	switch c {
	case Joy:
		return "card_m_yellow"
	case Sad:
		return "card_m_blue"
	case Scary:
		return "card_m_red"
	case Strange:
		return "card_m_purple"
	case Shy:
		return "card_m_pink"
	case All:
		return "card_m_white"
	}
	return "card_m_white"
}

// Background resolves the detail background for an emotion code.
func Background(code int) Asset { return FromCode(code).Background() }

// Icon resolves the feeling icon for an emotion code.
func Icon(code int) Asset { return FromCode(code).Icon() }

// CardBackground resolves the feed card background for an emotion code.
func CardBackground(code int) Asset { return FromCode(code).CardBackground() }
