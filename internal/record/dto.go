package record

// Envelope is the response wrapper used by every record endpoint.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// VoiceDTO is the wire shape of an attached recording.
type VoiceDTO struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// DetailDTO is the wire shape of GET /record/{id}.
type DetailDTO struct {
	ID      string    `json:"_id"`
	Title   string    `json:"title"`
	Date    string    `json:"date"`
	Content *string   `json:"content"`
	Note    *string   `json:"note"`
	Emotion *int      `json:"emotion"`
	Genre   []int     `json:"genre"`
	Voice   *VoiceDTO `json:"voice"`
}

// HomeDTO is the wire shape of GET /record/storage.
type HomeDTO struct {
	Nickname string        `json:"nickname,omitempty"`
	Records  []HomeCardDTO `json:"records"`
}

// HomeCardDTO is one card of the home feed.
type HomeCardDTO struct {
	ID      string `json:"_id"`
	Emotion int    `json:"emotion"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Genre   []int  `json:"genre"`
	Content string `json:"content"`
}

// CreateDTO is the request body of POST /record.
type CreateDTO struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content,omitempty"`
	Note    string `json:"note,omitempty"`
	Emotion int    `json:"emotion"`
	Genre   []int  `json:"genre"`
	Voice   string `json:"voice,omitempty"`
}

// CreatedDTO is the data returned by POST /record.
type CreatedDTO struct {
	ID string `json:"_id"`
}

// ToDomain converts the wire detail into a DetailRecord. Nullable fields
// collapse to their zero value.
func (d DetailDTO) ToDomain() DetailRecord {
	rec := DetailRecord{
		ID:    d.ID,
		Title: d.Title,
		Date:  d.Date,
		Genre: append([]int(nil), d.Genre...),
	}
	if d.Content != nil {
		rec.Content = *d.Content
	}
	if d.Note != nil {
		rec.Note = *d.Note
	}
	if d.Emotion != nil {
		rec.Emotion = *d.Emotion
	}
	if d.Voice != nil {
		rec.Voice = &Voice{ID: d.Voice.ID, URL: d.Voice.URL}
	}
	return rec
}

// DetailFromDomain builds the wire shape for a record.
func DetailFromDomain(r DetailRecord) DetailDTO {
	content := r.Content
	note := r.Note
	emotion := r.Emotion
	dto := DetailDTO{
		ID:      r.ID,
		Title:   r.Title,
		Date:    r.Date,
		Content: &content,
		Note:    &note,
		Emotion: &emotion,
		Genre:   append([]int{}, r.Genre...),
	}
	if r.Voice != nil {
		dto.Voice = &VoiceDTO{ID: r.Voice.ID, URL: r.Voice.URL}
	}
	return dto
}

// ToDomain converts a home card.
func (c HomeCardDTO) ToDomain() HomeRecord {
	return HomeRecord{
		ID:      c.ID,
		Emotion: c.Emotion,
		Date:    c.Date,
		Title:   c.Title,
		Genre:   append([]int(nil), c.Genre...),
		Content: c.Content,
	}
}

// HomeCardFromDomain builds the wire shape for a home card.
func HomeCardFromDomain(h HomeRecord) HomeCardDTO {
	return HomeCardDTO{
		ID:      h.ID,
		Emotion: h.Emotion,
		Date:    h.Date,
		Title:   h.Title,
		Genre:   append([]int{}, h.Genre...),
		Content: h.Content,
	}
}

// ToDomain converts a create request.
func (c CreateDTO) ToDomain() NewRecord {
	return NewRecord{
		Title:   c.Title,
		Date:    c.Date,
		Content: c.Content,
		Note:    c.Note,
		Emotion: c.Emotion,
		Genre:   append([]int(nil), c.Genre...),
		VoiceID: c.Voice,
	}
}
