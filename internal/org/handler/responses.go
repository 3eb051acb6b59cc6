package handler

import (
	"coldchain/contracts/session"
	"coldchain/internal/org/models"
)

type MemberListResponse struct {
	Members []session.Membership `json:"members"`
	Count   int                  `json:"count"`
}

func toMemberList(members []*models.Membership) MemberListResponse {
	out := make([]session.Membership, 0, len(members))
	for _, m := range members {
		out = append(out, m.ToContract())
	}
	return MemberListResponse{Members: out, Count: len(out)}
}
