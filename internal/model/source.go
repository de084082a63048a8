package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotAllowed возвращается, когда запрос не прошел проверку формы.
var ErrNotAllowed = errors.New("not allowed")

// Источник, который клиент просит опросить
type FeedSource struct {
	// Урл ленты
	Link            string `json:"link"`
	AvatarThumbnail string `json:"avatarThumbnail"`
	AvatarText      string `json:"avatarText"`
}

// Клиенты попроще присылают просто строку с урлом вместо объекта
func (s *FeedSource) UnmarshalJSON(data []byte) error {
	var link string
	if err := json.Unmarshal(data, &link); err == nil {
		*s = FeedSource{Link: link}
		return nil
	}

	type plain FeedSource
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*s = FeedSource(p)
	return nil
}

// ValidateSources проверяет список источников до того, как мы пойдем в сеть.
func ValidateSources(sources []FeedSource) error {
	if len(sources) == 0 {
		return ErrNotAllowed
	}

	for _, src := range sources {
		if strings.TrimSpace(src.Link) == "" {
			return ErrNotAllowed
		}
	}

	return nil
}

// ParseSources разбирает поле data из тела запроса
func ParseSources(raw json.RawMessage) ([]FeedSource, error) {
	if len(raw) == 0 {
		return nil, ErrNotAllowed
	}

	var sources []FeedSource
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, ErrNotAllowed
	}

	if err := ValidateSources(sources); err != nil {
		return nil, err
	}

	return sources, nil
}
