package dto

import "time"

// PostSummaryDTO is one post of the listing API.
type PostSummaryDTO struct {
	UID                  string     `json:"uid" example:"como-utilizar-hooks"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	PublishedLabel       string     `json:"published_label" example:"15 mar 2021"`
	Title                string     `json:"title" example:"Como utilizar Hooks"`
	Subtitle             string     `json:"subtitle" example:"Pensando em sincronização em vez de ciclos de vida"`
	Author               string     `json:"author" example:"Joseph Oliveira"`
}

// PostPageDTO 는 목록 API 응답. NextPage 는 다음 페이지를 가리키는 이 API 의 URL 이고 마지막이면 null.
type PostPageDTO struct {
	Results  []PostSummaryDTO `json:"results"`
	NextPage *string          `json:"next_page" example:"/api/v1/posts?cursor=https%3A%2F%2Fspacetraveling.cdn.prismic.io%2Fapi%2Fv2%2Fdocuments%2Fsearch%3Fpage%3D2"`
}
