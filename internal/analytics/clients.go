// Package analytics holds the filter and aggregation helpers that sit on top
// of the record store: communication predicates, task filters, period
// bucketing and the dashboard summary.
package analytics

import (
	"strings"
	"time"

	"salescore/pkg/domain"
)

// NeedsContact reports whether the client's next contact date has arrived and
// the contact cycle is still open.
func NeedsContact(c domain.Client, now time.Time) bool {
	if c.NextContactAt == nil || c.NextContactAt.After(now) {
		return false
	}
	switch c.CommunicationStatus {
	case domain.CommunicationCompleted, domain.CommunicationRejected:
		return false
	}
	return true
}

// ReminderDue reports whether the client's reminder time has passed.
func ReminderDue(c domain.Client, now time.Time) bool {
	return c.ReminderAt != nil && !c.ReminderAt.After(now)
}

// HasOpenCommunication reports whether any log entry is still scheduled.
func HasOpenCommunication(c domain.Client) bool {
	for _, entry := range c.Communications {
		if entry.Status == domain.CommunicationEntryScheduled {
			return true
		}
	}
	return false
}

// ClientFilter narrows a client list. Zero fields match everything.
type ClientFilter struct {
	Query         string
	Status        domain.CommunicationStatus
	Type          domain.ClientType
	ResponsibleID string
	// Overdue keeps only clients for which NeedsContact holds.
	Overdue bool
}

// FilterClients returns the clients matching f in their original order.
func FilterClients(clients []domain.Client, f ClientFilter, now time.Time) []domain.Client {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if f.Status != "" && c.CommunicationStatus != f.Status {
			continue
		}
		if f.Type != "" && c.ClientType != f.Type {
			continue
		}
		if f.ResponsibleID != "" && c.ResponsibleID != f.ResponsibleID {
			continue
		}
		if f.Overdue && !NeedsContact(c, now) {
			continue
		}
		if query != "" && !clientMatches(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func clientMatches(c domain.Client, query string) bool {
	fields := []string{c.Name, c.INN, c.City, c.Phone, c.Email}
	for _, contact := range c.Contacts {
		fields = append(fields, contact.Name)
		fields = append(fields, contact.Phones...)
		fields = append(fields, contact.Emails...)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
