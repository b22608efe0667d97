package http

import "time"

// Error is the JSON body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ActorRequest identifies the acting user and the permissions the caller
// resolved for them. The engine treats the permission list as ground
// truth; resolving it is the identity provider's job.
type ActorRequest struct {
	ID          string   `json:"id"`
	Permissions []string `json:"permissions,omitempty"`
}

// ApplyTransitionRequest is the body of POST /api/v1/entities/{type}/{id}/transitions.
type ApplyTransitionRequest struct {
	Category string       `json:"category"`
	Target   string       `json:"target"`
	Actor    ActorRequest `json:"actor"`
	Reason   string       `json:"reason,omitempty"`
}

// OwnerRequest links the entity being initialized to the composite it
// fulfills.
type OwnerRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Category   string `json:"category"`
}

// InitStateRequest is the body of POST /api/v1/entities/{type}/{id}/states.
type InitStateRequest struct {
	Category string        `json:"category"`
	Initial  string        `json:"initial"`
	Actor    ActorRequest  `json:"actor"`
	Owner    *OwnerRequest `json:"owner,omitempty"`
}

// TransitionResponse describes one accepted transition, mirroring the
// history row it produced.
type TransitionResponse struct {
	Sequence   int64     `json:"sequence"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Category   string    `json:"category"`
	Previous   *string   `json:"previous,omitempty"`
	NewState   string    `json:"new_state"`
	Actor      string    `json:"actor"`
	Automatic  bool      `json:"automatic"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CurrentStateResponse is the body of GET /api/v1/entities/{type}/{id}/state.
type CurrentStateResponse struct {
	State     string    `json:"state"`
	EnteredAt time.Time `json:"entered_at"`
	Active    bool      `json:"active"`
}

// AllowedTransitionResponse describes one state the actor may move to,
// with the attributes UI menus render.
type AllowedTransitionResponse struct {
	State   string `json:"state"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Icon    string `json:"icon,omitempty"`
	IsFinal bool   `json:"is_final"`
}

// StateRequest defines one catalog state in an import payload.
type StateRequest struct {
	Category         string `json:"category"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Color            string `json:"color,omitempty"`
	Icon             string `json:"icon,omitempty"`
	Order            int    `json:"order"`
	IsFinal          bool   `json:"is_final"`
	AllowsEdit       bool   `json:"allows_edit"`
	RequiresApproval bool   `json:"requires_approval"`
}

// TransitionRuleRequest defines one catalog transition rule in an import
// payload. ExpiresAfterSeconds only applies to automatic rules; zero
// means the rule fires on the next sweep.
type TransitionRuleRequest struct {
	Category            string `json:"category"`
	From                string `json:"from"`
	To                  string `json:"to"`
	Permission          string `json:"permission,omitempty"`
	Automatic           bool   `json:"automatic"`
	ExpiresAfterSeconds int64  `json:"expires_after_seconds,omitempty"`
	Notify              bool   `json:"notify"`
	Active              bool   `json:"active"`
}

// StateMappingRequest defines one cross-category aggregation mapping in
// an import payload. ID zero lets the catalog assign the next
// insertion-order ID.
type StateMappingRequest struct {
	ID           int64  `json:"id,omitempty"`
	FromCategory string `json:"from_category"`
	FromState    string `json:"from_state"`
	ToCategory   string `json:"to_category"`
	ToState      string `json:"to_state"`
	Priority     int    `json:"priority"`
	Active       bool   `json:"active"`
}

// ImportCatalogRequest is the body of POST /api/v1/catalog. The import
// replaces the whole configuration atomically.
type ImportCatalogRequest struct {
	States      []StateRequest          `json:"states"`
	Transitions []TransitionRuleRequest `json:"transitions"`
	Mappings    []StateMappingRequest   `json:"mappings"`
}
