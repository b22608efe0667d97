package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"stateflow/internal/core/application/usecases/commands"
	"stateflow/internal/core/application/usecases/queries"
	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP surface of the engine.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	applyTransitionHandler   commands.ApplyTransitionCommandHandler
	initStateHandler         commands.InitStateCommandHandler
	retireEntityStateHandler commands.RetireEntityStateCommandHandler
	importCatalogHandler     commands.ImportCatalogCommandHandler

	// Query handlers
	getCurrentStateHandler       queries.GetCurrentStateQueryHandler
	getAllowedTransitionsHandler queries.GetAllowedTransitionsQueryHandler
	getHistoryHandler            queries.GetHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	initStateHandler commands.InitStateCommandHandler,
	retireEntityStateHandler commands.RetireEntityStateCommandHandler,
	importCatalogHandler commands.ImportCatalogCommandHandler,
	getCurrentStateHandler queries.GetCurrentStateQueryHandler,
	getAllowedTransitionsHandler queries.GetAllowedTransitionsQueryHandler,
	getHistoryHandler queries.GetHistoryQueryHandler,
) *Server {
	return &Server{
		applyTransitionHandler:       applyTransitionHandler,
		initStateHandler:             initStateHandler,
		retireEntityStateHandler:     retireEntityStateHandler,
		importCatalogHandler:         importCatalogHandler,
		getCurrentStateHandler:       getCurrentStateHandler,
		getAllowedTransitionsHandler: getAllowedTransitionsHandler,
		getHistoryHandler:            getHistoryHandler,
	}
}

// RegisterRoutes attaches all engine endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/entities/:type/:id/states", s.InitState)
	e.DELETE("/api/v1/entities/:type/:id/states", s.RetireState)
	e.POST("/api/v1/entities/:type/:id/transitions", s.ApplyTransition)
	e.GET("/api/v1/entities/:type/:id/state", s.GetCurrentState)
	e.GET("/api/v1/entities/:type/:id/history", s.GetHistory)
	e.GET("/api/v1/categories/:category/states/:state/transitions", s.GetAllowedTransitions)
	e.POST("/api/v1/catalog", s.ImportCatalog)
}

// ApplyTransition handles POST /api/v1/entities/:type/:id/transitions.
// Applies one manual transition on behalf of the request's actor.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	ref, err := refFromPath(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid entity reference: "+err.Error())
	}

	var req ApplyTransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	actor, err := workflow.NewActor(req.Actor.ID, req.Actor.Permissions)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewApplyTransitionCommand(
		ref,
		workflow.Category(req.Category),
		workflow.StateCode(req.Target),
		actor,
		req.Reason,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid transition data: "+err.Error())
	}

	record, err := s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return transitionError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, transitionResponse(record))
}

// InitState handles POST /api/v1/entities/:type/:id/states.
// Initializes an entity's state in a category and writes the first
// ledger row.
func (s *Server) InitState(ctx echo.Context) error {
	ref, err := refFromPath(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid entity reference: "+err.Error())
	}

	var req InitStateRequest
	if err = ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	actor, err := workflow.NewActor(req.Actor.ID, req.Actor.Permissions)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid actor: "+err.Error())
	}

	var owner *entitystate.Owner
	if req.Owner != nil {
		ownerID, ownerErr := kernel.UUIDFromString(req.Owner.EntityID)
		if ownerErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid owner id: "+ownerErr.Error())
		}
		ownerRef, ownerErr := entitystate.NewRef(req.Owner.EntityType, ownerID)
		if ownerErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid owner reference: "+ownerErr.Error())
		}
		o, ownerErr := entitystate.NewOwner(ownerRef, workflow.Category(req.Owner.Category))
		if ownerErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid owner: "+ownerErr.Error())
		}
		owner = &o
	}

	cmd, err := commands.NewInitStateCommand(
		ref,
		workflow.Category(req.Category),
		workflow.StateCode(req.Initial),
		actor,
		owner,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid initialization data: "+err.Error())
	}

	record, err := s.initStateHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return transitionError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, transitionResponse(record))
}

// RetireState handles DELETE /api/v1/entities/:type/:id/states.
// Retires the entity's record in the "category" query parameter from
// aggregation; the owning composite is re-aggregated from the subs
// that remain active. Retiring an already retired record is a no-op.
func (s *Server) RetireState(ctx echo.Context) error {
	ref, err := refFromPath(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid entity reference: "+err.Error())
	}

	cmd, err := commands.NewRetireEntityStateCommand(ref, workflow.Category(ctx.QueryParam("category")))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid retirement data: "+err.Error())
	}

	if err = s.retireEntityStateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return transitionError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCurrentState handles GET /api/v1/entities/:type/:id/state.
// The category comes from the "category" query parameter.
func (s *Server) GetCurrentState(ctx echo.Context) error {
	ref, err := refFromPath(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid entity reference: "+err.Error())
	}

	query, err := queries.NewGetCurrentStateQuery(ref, workflow.Category(ctx.QueryParam("category")))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid query: "+err.Error())
	}

	state, err := s.getCurrentStateHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "Entity has no state in this category")
		}
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve state")
	}

	return ctx.JSON(http.StatusOK, CurrentStateResponse{
		State:     state.State.String(),
		EnteredAt: state.EnteredAt,
		Active:    state.Active,
	})
}

// GetHistory handles GET /api/v1/entities/:type/:id/history.
// Returns the entity's transition trail oldest first. The optional
// "category" query parameter narrows the trail to one category;
// without it the full cross-category trail is returned.
func (s *Server) GetHistory(ctx echo.Context) error {
	ref, err := refFromPath(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid entity reference: "+err.Error())
	}

	query, err := queries.NewGetHistoryQuery(ref, workflow.Category(ctx.QueryParam("category")))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid query: "+err.Error())
	}

	records, err := s.getHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve history")
	}

	response := make([]TransitionResponse, len(records))
	for i, record := range records {
		var previous *string
		if record.Previous != nil {
			p := record.Previous.String()
			previous = &p
		}
		response[i] = TransitionResponse{
			Sequence:   record.Sequence,
			EntityType: ref.EntityType(),
			EntityID:   ref.ID().String(),
			Category:   record.Category.String(),
			Previous:   previous,
			NewState:   record.NewState.String(),
			Actor:      record.Actor,
			Automatic:  record.Automatic,
			Reason:     record.Reason,
			OccurredAt: record.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAllowedTransitions handles GET /api/v1/categories/:category/states/:state/transitions.
// The actor comes from the "actor_id" and comma-separated "permissions"
// query parameters.
func (s *Server) GetAllowedTransitions(ctx echo.Context) error {
	var permissions []string
	if raw := ctx.QueryParam("permissions"); raw != "" {
		permissions = strings.Split(raw, ",")
	}

	actor, err := workflow.NewActor(ctx.QueryParam("actor_id"), permissions)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid actor: "+err.Error())
	}

	query, err := queries.NewGetAllowedTransitionsQuery(
		workflow.Category(ctx.Param("category")),
		workflow.StateCode(ctx.Param("state")),
		actor,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid query: "+err.Error())
	}

	targets, err := s.getAllowedTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve transitions")
	}

	response := make([]AllowedTransitionResponse, len(targets))
	for i, target := range targets {
		response[i] = AllowedTransitionResponse{
			State:   target.State.String(),
			Name:    target.Name,
			Color:   target.Color,
			Icon:    target.Icon,
			IsFinal: target.IsFinal,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ImportCatalog handles POST /api/v1/catalog.
// Replaces the whole engine configuration atomically; the first invalid
// definition rejects the import without touching the stored one.
func (s *Server) ImportCatalog(ctx echo.Context) error {
	var req ImportCatalogRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cfg, err := catalogConfigFromRequest(req)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid catalog definition: "+err.Error())
	}

	cmd, err := commands.NewImportCatalogCommand(cfg)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid catalog: "+err.Error())
	}

	if err = s.importCatalogHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if isConfigError(err) {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid catalog: "+err.Error())
		}
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to import catalog")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// refFromPath builds the entity reference from the :type and :id path
// parameters.
func refFromPath(ctx echo.Context) (entitystate.Ref, error) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return entitystate.Ref{}, err
	}
	return entitystate.NewRef(ctx.Param("type"), id)
}

// catalogConfigFromRequest maps an import payload to domain configuration,
// stopping at the first invalid definition.
func catalogConfigFromRequest(req ImportCatalogRequest) (workflow.CatalogConfig, error) {
	var cfg workflow.CatalogConfig

	for _, s := range req.States {
		def, err := workflow.NewStateDefinition(
			workflow.Category(s.Category),
			workflow.StateCode(s.Code),
			workflow.StateAttributes{
				Name:             s.Name,
				Color:            s.Color,
				Icon:             s.Icon,
				Order:            s.Order,
				IsFinal:          s.IsFinal,
				AllowsEdit:       s.AllowsEdit,
				RequiresApproval: s.RequiresApproval,
			},
		)
		if err != nil {
			return workflow.CatalogConfig{}, err
		}
		cfg.States = append(cfg.States, def)
	}

	for _, t := range req.Transitions {
		rule, err := workflow.NewTransition(
			workflow.Category(t.Category),
			workflow.StateCode(t.From),
			workflow.StateCode(t.To),
			workflow.TransitionAttributes{
				Permission:   t.Permission,
				Automatic:    t.Automatic,
				ExpiresAfter: time.Duration(t.ExpiresAfterSeconds) * time.Second,
				Notify:       t.Notify,
				Active:       t.Active,
			},
		)
		if err != nil {
			return workflow.CatalogConfig{}, err
		}
		cfg.Transitions = append(cfg.Transitions, rule)
	}

	for _, m := range req.Mappings {
		mapping, err := workflow.NewStateMapping(
			m.ID,
			workflow.Category(m.FromCategory),
			workflow.StateCode(m.FromState),
			workflow.Category(m.ToCategory),
			workflow.StateCode(m.ToState),
			m.Priority,
			m.Active,
		)
		if err != nil {
			return workflow.CatalogConfig{}, err
		}
		cfg.Mappings = append(cfg.Mappings, mapping)
	}

	return cfg, nil
}

// transitionResponse maps a history record to its JSON representation.
func transitionResponse(record history.Record) TransitionResponse {
	var previous *string
	if p := record.Previous(); p != nil {
		s := p.String()
		previous = &s
	}

	return TransitionResponse{
		Sequence:   record.Sequence(),
		EntityType: record.Ref().EntityType(),
		EntityID:   record.Ref().ID().String(),
		Category:   record.Category().String(),
		Previous:   previous,
		NewState:   record.NewState().String(),
		Actor:      record.Actor(),
		Automatic:  record.Automatic(),
		Reason:     record.Reason(),
		OccurredAt: record.OccurredAt(),
	}
}

// transitionError maps executor errors to HTTP statuses: missing state
// is 404, permission failures 403, rule and concurrency rejections 409,
// anything the caller could have fixed 400.
func transitionError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, workflow.ErrNoCurrentState) || errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		return errorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrTransitionNotAllowed),
		errors.Is(err, workflow.ErrConcurrentModification),
		errors.Is(err, workflow.ErrAggregationTransitionBlocked):
		return errorResponse(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrUnknownState) || errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid):
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to apply transition")
	}
}

// isConfigError reports whether the error is a catalog definition
// problem rather than an infrastructure failure.
func isConfigError(err error) bool {
	return errors.Is(err, workflow.ErrUnknownState) ||
		errors.Is(err, workflow.ErrDuplicateStateCode) ||
		errors.Is(err, workflow.ErrIllegalFinalOrigin) ||
		errors.Is(err, workflow.ErrInvalidAutomaticRule)
}

// errorResponse writes the uniform error body.
func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}
