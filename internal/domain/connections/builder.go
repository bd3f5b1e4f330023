package connections

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/guidance"
	"github.com/clinicdesk/clinicdesk/internal/domain/links"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/research"
	"github.com/clinicdesk/clinicdesk/internal/domain/session"
	"github.com/clinicdesk/clinicdesk/internal/domain/task"
	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

// BuildInput carries the patient and every related collection the graph
// projects. Collections may be supplied in any order; the output is
// identical regardless.
type BuildInput struct {
	Patient   *patient.Patient
	Sessions  []*session.Session
	Tasks     []*task.Task
	Guidances []*guidance.Guidance
	Notes     []*research.Note
	Documents []*research.Document
	Receipts  []*billing.Receipt
	Links     []*links.ExternalLink
	Now       time.Time
}

func nodeID(kind NodeKind, sourceID uuid.UUID) string {
	return string(kind) + ":" + sourceID.String()
}

type builder struct {
	nodes map[string]Node
	edges map[Edge]struct{}
}

// upsert keeps the lower-priority (more central) version when the same
// composite id arrives twice, then fills any empty field of the winner
// from the other version so the result does not depend on arrival order.
func (b *builder) upsert(n Node) {
	existing, ok := b.nodes[n.ID]
	if !ok {
		b.nodes[n.ID] = n
		return
	}
	winner, loser := existing, n
	if n.Priority < existing.Priority {
		winner, loser = n, existing
	}
	if winner.Label == "" {
		winner.Label = loser.Label
	}
	if winner.Meta == "" {
		winner.Meta = loser.Meta
	}
	if winner.SortValue == nil {
		winner.SortValue = loser.SortValue
	}
	b.nodes[n.ID] = winner
}

func (b *builder) edge(source, target string) {
	if source == target {
		return
	}
	b.edges[Edge{Source: source, Target: target}] = struct{}{}
}

// Build projects a patient and its related records into a deduplicated,
// priority-ranked node/edge graph. It is a pure transform over data the
// caller already fetched; nothing is read or written here.
func Build(clock *wallclock.Clock, in BuildInput) Graph {
	b := &builder{
		nodes: map[string]Node{},
		edges: map[Edge]struct{}{},
	}

	patientNodeID := nodeID(KindPatient, in.Patient.ID)
	b.nodes[patientNodeID] = Node{
		ID:       patientNodeID,
		Kind:     KindPatient,
		Label:    in.Patient.FullName,
		Priority: PriorityPatient,
	}

	for _, s := range in.Sessions {
		prio := PriorityPastSession
		if s.IsUpcoming(in.Now) {
			prio = PriorityUpcomingSession
		}
		at := s.ScheduledAt
		b.upsert(Node{
			ID:        nodeID(KindSession, s.ID),
			Kind:      KindSession,
			Label:     clock.LocalDateKey(s.ScheduledAt),
			Meta:      s.Status,
			Priority:  prio,
			SortValue: &at,
		})
	}

	for _, t := range in.Tasks {
		prio := PriorityClosedTask
		if t.Status == task.StatusOpen {
			prio = PriorityOpenTask
		}
		b.upsert(Node{
			ID:        nodeID(KindTask, t.ID),
			Kind:      KindTask,
			Label:     t.Title,
			Meta:      t.Status,
			Priority:  prio,
			SortValue: t.DueAt,
		})
	}

	for _, g := range in.Guidances {
		prio := PriorityCompletedGuidance
		if g.Status == guidance.StatusActive {
			prio = PriorityActiveGuidance
		}
		at := g.CreatedAt
		b.upsert(Node{
			ID:        nodeID(KindGuidance, g.ID),
			Kind:      KindGuidance,
			Label:     g.Topic,
			Meta:      g.Status,
			Priority:  prio,
			SortValue: &at,
		})
	}

	for _, n := range in.Notes {
		at := n.CreatedAt
		b.upsert(Node{
			ID:        nodeID(KindResearchNote, n.ID),
			Kind:      KindResearchNote,
			Label:     n.Title,
			Priority:  PriorityResearchNote,
			SortValue: &at,
		})
		// A cited document may not be in Documents; a placeholder node
		// keeps the citation edge valid and the upsert fills it in.
		for _, docID := range n.DocumentIDs {
			b.upsert(Node{
				ID:       nodeID(KindResearchDocument, docID),
				Kind:     KindResearchDocument,
				Priority: PriorityResearchDocument,
			})
		}
	}

	for _, d := range in.Documents {
		meta := ""
		if d.URL != nil {
			meta = *d.URL
		}
		b.upsert(Node{
			ID:       nodeID(KindResearchDocument, d.ID),
			Kind:     KindResearchDocument,
			Label:    d.Title,
			Meta:     meta,
			Priority: PriorityResearchDocument,
		})
	}

	for _, r := range in.Receipts {
		label := fmt.Sprintf("%d.%02d", r.AmountCents/100, r.AmountCents%100)
		if r.Description != nil && *r.Description != "" {
			label = *r.Description
		}
		at := r.IssuedAt
		b.upsert(Node{
			ID:        nodeID(KindReceipt, r.ID),
			Kind:      KindReceipt,
			Label:     label,
			Meta:      clock.LocalDateKey(r.IssuedAt),
			Priority:  PriorityReceipt,
			SortValue: &at,
		})
	}

	for _, l := range in.Links {
		b.upsert(Node{
			ID:       nodeID(KindExternalLink, l.ID),
			Kind:     KindExternalLink,
			Label:    l.Label,
			Meta:     l.URL,
			Priority: PriorityExternalLink,
		})
	}

	// Primary edges: exactly one patient edge per related node.
	for id := range b.nodes {
		b.edge(patientNodeID, id)
	}

	// Secondary edges between related nodes, only when both ends exist.
	for _, t := range in.Tasks {
		if t.SessionID != nil {
			b.secondary(nodeID(KindTask, t.ID), nodeID(KindSession, *t.SessionID))
		}
	}
	for _, g := range in.Guidances {
		if g.SessionID != nil {
			b.secondary(nodeID(KindGuidance, g.ID), nodeID(KindSession, *g.SessionID))
		}
	}
	for _, r := range in.Receipts {
		for _, a := range r.Allocations {
			b.secondary(nodeID(KindReceipt, r.ID), nodeID(KindSession, a.SessionID))
		}
	}
	for _, n := range in.Notes {
		for _, docID := range n.DocumentIDs {
			b.secondary(nodeID(KindResearchNote, n.ID), nodeID(KindResearchDocument, docID))
		}
	}

	return b.finish(patientNodeID)
}

func (b *builder) secondary(source, target string) {
	if _, ok := b.nodes[source]; !ok {
		return
	}
	if _, ok := b.nodes[target]; !ok {
		return
	}
	b.edge(source, target)
}

func (b *builder) finish(patientNodeID string) Graph {
	nodes := make([]Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Priority != nodes[j].Priority {
			return nodes[i].Priority < nodes[j].Priority
		}
		if nodes[i].Label != nodes[j].Label {
			return nodes[i].Label < nodes[j].Label
		}
		return nodes[i].ID < nodes[j].ID
	})

	edges := make([]Edge, 0, len(b.edges))
	for e := range b.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return Graph{PatientNodeID: patientNodeID, Nodes: nodes, Edges: edges}
}
