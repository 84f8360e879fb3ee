package ticket

// Developer is a grouping of tickets by owner. It is rebuilt on every
// computation and never persisted.
type Developer struct {
	Name    string
	Tickets []Ticket
}

// GroupByOwner returns one Developer per distinct owner, in order of first
// appearance, each holding its tickets in input order.
func GroupByOwner(tickets []Ticket) []Developer {
	index := make(map[string]int)
	var devs []Developer
	for _, t := range tickets {
		i, ok := index[t.Owner]
		if !ok {
			i = len(devs)
			index[t.Owner] = i
			devs = append(devs, Developer{Name: t.Owner})
		}
		devs[i].Tickets = append(devs[i].Tickets, t)
	}
	return devs
}

// Find returns the ticket with id and its position, or -1.
func Find(tickets []Ticket, id string) (Ticket, int) {
	for i, t := range tickets {
		if t.ID == id {
			return t, i
		}
	}
	return Ticket{}, -1
}
