package entity

import (
	"encoding/json"
	"fmt"
)

// Pagination is the paging block of gateway API list responses.
type Pagination struct {
	Total       int             `json:"total"`
	Count       int             `json:"count"`
	PerPage     int             `json:"per_page"`
	CurrentPage int             `json:"current_page"`
	TotalPages  int             `json:"total_pages"`
	Links       map[string]Link `json:"links"`
}

// Link is one pagination link, keyed by its handle (e.g. "next", "previous").
type Link struct {
	Href string `json:"href"`
}

// UnmarshalJSON accepts either a bare URL string or an object with href.
func (l *Link) UnmarshalJSON(data []byte) error {
	var href string
	if err := json.Unmarshal(data, &href); err == nil {
		l.Href = href
		return nil
	}
	var object struct {
		Href string `json:"href"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("decode link: %v", err)
	}
	l.Href = object.Href
	return nil
}

// NewPagination decodes a pagination block; links is never nil in the result.
func NewPagination(data []byte) (*Pagination, error) {
	var pagination Pagination
	if err := json.Unmarshal(data, &pagination); err != nil {
		return nil, fmt.Errorf("decode pagination: %v", err)
	}
	if pagination.Links == nil {
		pagination.Links = make(map[string]Link)
	}
	return &pagination, nil
}

// Link returns the link registered under handle.
func (p *Pagination) Link(handle string) (Link, bool) {
	link, ok := p.Links[handle]
	return link, ok
}

func (p *Pagination) HasNext() bool {
	_, ok := p.Links["next"]
	return ok
}
