package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/host"
	"layoutsmith/internal/layout"
	"layoutsmith/internal/logging"
	"layoutsmith/internal/provider"
	"layoutsmith/internal/render"
	"layoutsmith/internal/store"
)

// Dispatcher routes plugin messages to the engine. One dispatcher
// serves one document session; all handling is sequential because the
// host document is single-writer.
type Dispatcher struct {
	host     host.Host
	store    store.SessionStore
	provider provider.CompletionProvider
}

// NewDispatcher wires the dispatcher's collaborators.
func NewDispatcher(h host.Host, s store.SessionStore, p provider.CompletionProvider) *Dispatcher {
	return &Dispatcher{host: h, store: s, provider: p}
}

// Handle processes one request and returns the response envelope.
// A response with an empty Type means the request was side-effect only.
func (d *Dispatcher) Handle(ctx context.Context, req Envelope) Envelope {
	logging.Plugin("Handling %s (id %s)", req.Type, req.ID)

	switch req.Type {
	case MsgScanDesignSystem:
		return d.handleScan(ctx, req)
	case MsgGenerateUIFromJSON:
		return d.handleGenerate(ctx, req)
	case MsgModifyExistingUI:
		return d.handleModify(ctx, req)
	case MsgUpdateComponentType:
		return d.handleUpdateType(req)
	case MsgNavigateToComponent:
		return d.handleNavigate(req)
	case MsgGetAPIKey:
		return d.handleGetAPIKey(req)
	case MsgSaveAPIKey:
		return d.handleSaveAPIKey(req)
	case MsgClearAPIKey:
		return d.handleClearAPIKey(req)
	case MsgGetSavedScan:
		return d.handleGetSavedScan(req)
	default:
		return d.fail(req, fmt.Sprintf("unknown message type %q", req.Type))
	}
}

func (d *Dispatcher) respond(req Envelope, msgType string, payload any) Envelope {
	data, err := json.Marshal(payload)
	if err != nil {
		return d.fail(req, fmt.Sprintf("failed to encode response: %v", err))
	}
	return Envelope{ID: responseID(req), Type: msgType, Payload: data}
}

func (d *Dispatcher) fail(req Envelope, message string) Envelope {
	logging.Get(logging.CategoryPlugin).Error("%s failed: %s", req.Type, message)
	env := d.respond(req, MsgError, ErrorPayload{Message: message})
	env.Type = MsgError
	return env
}

func responseID(req Envelope) string {
	if req.ID != "" {
		return req.ID
	}
	return uuid.NewString()
}

// =============================================================================
// SCAN
// =============================================================================

func (d *Dispatcher) handleScan(ctx context.Context, req Envelope) Envelope {
	cat, err := catalog.NewScanner(d.host).Scan(ctx, nil)
	if err != nil {
		return d.fail(req, fmt.Sprintf("scan failed: %v", err))
	}

	// A persistence failure must not lose the scan: the results still
	// go back to the UI, with a notification about the save.
	if err := d.store.WriteCatalog(cat); err != nil {
		logging.Get(logging.CategoryStore).Error("Could not persist scan: %v", err)
		d.host.Notify("Scan complete, but results could not be saved", true)
	}

	return d.respond(req, MsgScanResults, scanResults(cat))
}

func scanResults(cat *catalog.Catalog) ScanResultsPayload {
	out := ScanResultsPayload{Fingerprint: cat.Fingerprint}
	for _, rec := range cat.Records {
		out.Components = append(out.Components, ComponentSummary{
			ID:            rec.ID,
			Name:          rec.Name,
			SuggestedType: rec.SuggestedType,
			Confidence:    rec.Confidence,
			IsVerified:    rec.IsVerified,
			PageName:      rec.Page.PageName,
			VariantCount:  len(rec.VariantGroups),
		})
	}
	return out
}

// =============================================================================
// GENERATE / MODIFY
// =============================================================================

func (d *Dispatcher) handleGenerate(ctx context.Context, req Envelope) Envelope {
	var payload GeneratePayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return d.fail(req, fmt.Sprintf("bad generate payload: %v", err))
	}

	cat, err := d.currentCatalog(ctx)
	if err != nil {
		return d.fail(req, err.Error())
	}

	layoutJSON := []byte(payload.LayoutJSON)
	if len(layoutJSON) == 0 {
		if payload.Prompt == "" {
			return d.fail(req, "generate request needs layoutJson or prompt")
		}
		if d.provider == nil {
			return d.fail(req, "no completion backend configured; set an API key to generate from a prompt")
		}
		layoutJSON, err = GenerateLayoutJSON(ctx, d.provider, cat, payload.Prompt)
		if err != nil {
			return d.generationError(req, err, nil)
		}
	}

	doc, err := parseAndResolve(layoutJSON, cat)
	if err != nil {
		return d.generationError(req, err, layoutJSON)
	}

	frame, rep, err := render.New(d.host, cat).RenderToPage(ctx, doc)
	if err != nil {
		return d.generationError(req, err, layoutJSON)
	}

	return d.respond(req, MsgUIGeneratedSuccess, GenerateResult{
		LayoutJSON: encodedOr(doc, layoutJSON),
		FrameID:    frame.ID(),
		Summary:    rep.Summary(),
		Warnings:   warningMessages(rep),
	})
}

func (d *Dispatcher) handleModify(ctx context.Context, req Envelope) Envelope {
	var payload ModifyPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return d.fail(req, fmt.Sprintf("bad modify payload: %v", err))
	}

	node := d.host.Dereference(payload.FrameID)
	if node == nil {
		return d.fail(req, fmt.Sprintf("frame %s no longer exists", payload.FrameID))
	}
	frame, ok := node.(host.FrameNode)
	if !ok {
		return d.fail(req, fmt.Sprintf("node %s is %s, not a frame", payload.FrameID, node.Kind()))
	}

	cat, err := d.currentCatalog(ctx)
	if err != nil {
		return d.fail(req, err.Error())
	}

	doc, err := parseAndResolve(payload.LayoutJSON, cat)
	if err != nil {
		return d.generationError(req, err, payload.LayoutJSON)
	}

	rep, err := render.New(d.host, cat).ModifyInPlace(ctx, frame, doc)
	if err != nil {
		return d.generationError(req, err, payload.LayoutJSON)
	}

	return d.respond(req, MsgUIModifiedSuccess, GenerateResult{
		LayoutJSON: encodedOr(doc, payload.LayoutJSON),
		FrameID:    payload.FrameID,
		Summary:    rep.Summary(),
		Warnings:   warningMessages(rep),
	})
}

// currentCatalog prefers the persisted scan for this document, and
// falls back to a fresh scan when nothing usable is stored.
func (d *Dispatcher) currentCatalog(ctx context.Context) (*catalog.Catalog, error) {
	fingerprint := d.host.DocumentFingerprint()

	cat, _, ok, err := d.store.ReadCatalog(fingerprint)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Could not restore catalog: %v", err)
	}
	if ok {
		return cat, nil
	}

	cat, err = catalog.NewScanner(d.host).Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("no saved scan and rescan failed: %v", err)
	}
	if err := d.store.WriteCatalog(cat); err != nil {
		logging.Get(logging.CategoryStore).Error("Could not persist scan: %v", err)
	}
	return cat, nil
}

func parseAndResolve(layoutJSON []byte, cat *catalog.Catalog) (*layout.Document, error) {
	doc, err := layout.ParseDocument(layoutJSON)
	if err != nil {
		return nil, err
	}
	if err := render.ResolveComponentIDs(doc, cat); err != nil {
		return nil, err
	}
	return doc, nil
}

// encodedOr re-serializes the resolved tree so success responses carry
// concrete component ids; the raw input is only echoed if encoding fails.
func encodedOr(doc *layout.Document, fallback []byte) json.RawMessage {
	if data, err := layout.EncodeDocument(doc); err == nil {
		return data
	}
	return fallback
}

func (d *Dispatcher) generationError(req Envelope, err error, layoutJSON []byte) Envelope {
	payload := GenerationError{Message: err.Error(), LayoutJSON: layoutJSON}
	var resErr *render.ResolutionError
	if errors.As(err, &resErr) {
		payload.RequestedType = resErr.RequestedType
	}
	logging.Get(logging.CategoryPlugin).Error("%s: %v", req.Type, err)
	return d.respond(req, MsgUIGenerationError, payload)
}

func warningMessages(rep *render.Report) []string {
	if !rep.HasWarnings() {
		return nil
	}
	out := make([]string, len(rep.Warnings))
	for i, w := range rep.Warnings {
		out[i] = fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return out
}

// =============================================================================
// CATALOG PATCHING / NAVIGATION
// =============================================================================

func (d *Dispatcher) handleUpdateType(req Envelope) Envelope {
	var payload UpdateTypePayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return d.fail(req, fmt.Sprintf("bad update payload: %v", err))
	}

	cat, _, ok, err := d.store.ReadCatalog(d.host.DocumentFingerprint())
	if err != nil || !ok {
		return d.fail(req, "no saved scan to update; run a scan first")
	}

	if err := cat.UpdateType(payload.ComponentID, payload.NewType); err != nil {
		return d.fail(req, err.Error())
	}
	if err := d.store.WriteCatalog(cat); err != nil {
		return d.fail(req, fmt.Sprintf("could not save correction: %v", err))
	}

	logging.Catalog("Component %s corrected to %q", payload.ComponentID, payload.NewType)
	return d.respond(req, MsgComponentTypeUpdated, UpdateTypeResult{
		ComponentID: payload.ComponentID,
		NewType:     payload.NewType,
	})
}

func (d *Dispatcher) handleNavigate(req Envelope) Envelope {
	var payload NavigatePayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return d.fail(req, fmt.Sprintf("bad navigate payload: %v", err))
	}

	node := d.host.Dereference(payload.ComponentID)
	if node == nil {
		return d.fail(req, fmt.Sprintf("component %s no longer exists", payload.ComponentID))
	}

	d.host.SetSelectionAndFocus(node)
	return Envelope{} // side effect only
}

// =============================================================================
// API KEY / SAVED SCAN
// =============================================================================

func (d *Dispatcher) handleGetAPIKey(req Envelope) Envelope {
	key, err := d.store.ReadAPIKey()
	if err != nil {
		return d.fail(req, fmt.Sprintf("could not read API key: %v", err))
	}
	return d.respond(req, MsgAPIKeyLoaded, APIKeyPayload{APIKey: key})
}

func (d *Dispatcher) handleSaveAPIKey(req Envelope) Envelope {
	var payload APIKeyPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return d.fail(req, fmt.Sprintf("bad api-key payload: %v", err))
	}
	if err := d.store.WriteAPIKey(payload.APIKey); err != nil {
		return d.fail(req, fmt.Sprintf("could not save API key: %v", err))
	}
	return d.respond(req, MsgAPIKeySaved, struct{}{})
}

func (d *Dispatcher) handleClearAPIKey(req Envelope) Envelope {
	if err := d.store.ClearAll(); err != nil {
		return d.fail(req, fmt.Sprintf("could not clear session: %v", err))
	}
	return d.respond(req, MsgAPIKeyCleared, struct{}{})
}

func (d *Dispatcher) handleGetSavedScan(req Envelope) Envelope {
	cat, _, ok, err := d.store.ReadCatalog(d.host.DocumentFingerprint())
	if err != nil {
		return d.fail(req, fmt.Sprintf("could not restore scan: %v", err))
	}
	if !ok {
		return d.respond(req, MsgSavedScanNotFound, struct{}{})
	}
	return d.respond(req, MsgSavedScanLoaded, scanResults(cat))
}
