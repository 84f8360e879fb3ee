package sdk

import (
	"context"
	"sort"
)

// BlockedTickets lists every blocked ticket across the team, longest blocked
// first.
func (c *Client) BlockedTickets(ctx context.Context) ([]BlockedTicket, error) {
	team, err := c.Team(ctx)
	if err != nil {
		return nil, err
	}
	var out []BlockedTicket
	for _, d := range team.Developers {
		for _, t := range d.Tickets {
			if !t.IsBlocked {
				continue
			}
			out = append(out, BlockedTicket{
				Developer:   d.Name,
				TicketID:    t.ID,
				Title:       t.Title,
				BlockedBy:   t.BlockedBy,
				DaysBlocked: t.DaysBlocked,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysBlocked > out[j].DaysBlocked })
	return out, nil
}

// OverloadedDevelopers returns the developers whose queue overflows.
func (c *Client) OverloadedDevelopers(ctx context.Context) ([]string, error) {
	team, err := c.Team(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range team.Developers {
		if d.HasQueueOverflow {
			out = append(out, d.Name)
		}
	}
	return out, nil
}
