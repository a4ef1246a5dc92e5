// Package api exposes the catalog and the order store over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"pedidosapi/pkg/catalog"
	"pedidosapi/pkg/idempotency"
	"pedidosapi/pkg/logger"
	"pedidosapi/pkg/order"
	"pedidosapi/pkg/otel"
	"pedidosapi/pkg/pricing"
)

// IdempotencyHeader lets clients retry POST /pedidos safely.
const IdempotencyHeader = "Idempotency-Key"

// Handler serves every route. It is stateless apart from the stores it wraps.
type Handler struct {
	catalog  *catalog.Catalog
	resolver *pricing.Resolver
	orders   order.Repository
	idem     idempotency.Store
	log      *logger.Logger
}

// NewHandler wires handlers to their stores. idem may be nil, in which case
// the Idempotency-Key header is ignored.
func NewHandler(c *catalog.Catalog, orders order.Repository, idem idempotency.Store, log *logger.Logger) *Handler {
	return &Handler{
		catalog:  c,
		resolver: pricing.NewResolver(c),
		orders:   orders,
		idem:     idem,
		log:      log,
	}
}

// pathID parses the {id} route variable the way the first version of the
// API did: leading whitespace and an optional sign, then the leading digits,
// ignoring anything after them ("12abc" is 12). No digits means no match.
func pathID(r *http.Request) (int64, bool) {
	return leadingInt(mux.Vars(r)["id"])
}

func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	id, err := strconv.ParseInt(s[:end], 10, 64)
	return id, err == nil
}

// listProducts lists the catalog.
// @Summary List products
// @Produce json
// @Success 200 {object} api.Envelope{data=[]catalog.Product}
// @Router /productos [get]
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "listProducts")
	defer span.End()

	respond(w, http.StatusOK, "Listado de productos disponibles", h.catalog.List())
}

// getProduct retrieves a product by ID.
// @Summary Get product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} api.Envelope{data=catalog.Product}
// @Failure 404 {object} api.Envelope
// @Router /productos/{id} [get]
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getProduct")
	defer span.End()

	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, "Producto no encontrado", nil)
		return
	}
	p, err := h.catalog.Get(id)
	if err != nil {
		respond(w, http.StatusNotFound, "Producto no encontrado", nil)
		return
	}
	respond(w, http.StatusOK, "Producto encontrado", p)
}

// listOrders lists orders.
// @Summary List orders
// @Produce json
// @Success 200 {object} api.Envelope{data=[]order.Order}
// @Router /pedidos [get]
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrders")
	defer span.End()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.internalError(ctx, w, "list orders", err)
		return
	}
	respond(w, http.StatusOK, "GET de pedidos realizado con exito", orders)
}

// getOrder retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} api.Envelope{data=order.Order}
// @Failure 404 {object} api.Envelope
// @Router /pedidos/{id} [get]
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrder")
	defer span.End()

	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, "Pedido o ID no encontrado", nil)
		return
	}
	o, err := h.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respond(w, http.StatusNotFound, "Pedido o ID no encontrado", nil)
			return
		}
		h.internalError(ctx, w, "get order", err)
		return
	}
	respond(w, http.StatusOK, "Pedido encontrado", o)
}

// createOrder creates a new order.
// @Summary Create order
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param order body api.OrderBody true "Order"
// @Success 201 {object} api.Envelope{data=order.Order}
// @Failure 400 {object} api.Envelope
// @Router /pedidos [post]
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrder")
	defer span.End()

	in, err := h.validateBody(w, r)
	if err != nil {
		h.log.Warn(ctx, "create order rejected", "reason", err.Error())
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	key := r.Header.Get(IdempotencyHeader)
	if key != "" && h.idem != nil {
		prev, found, err := h.replay(ctx, key)
		if err != nil {
			h.internalError(ctx, w, "recall idempotency key", err)
			return
		}
		if found {
			h.log.Info(ctx, "create order replayed", "order_id", prev.ID)
			respond(w, http.StatusCreated, "Nuevo pedido creado correctamente", prev)
			return
		}
	}

	o, err := h.orders.Create(ctx, in.CustomerName, h.resolver.ResolveItems(in.ProductIDs))
	if err != nil {
		h.internalError(ctx, w, "create order", err)
		return
	}
	if key != "" && h.idem != nil {
		if err := h.idem.Remember(ctx, key, o.ID); err != nil {
			h.log.Warn(ctx, "remember idempotency key", "error", err)
		}
	}
	h.log.Info(ctx, "order created", "order_id", o.ID, "items", len(o.Items), "total", o.Total.String())
	respond(w, http.StatusCreated, "Nuevo pedido creado correctamente", o)
}

// updateOrder replaces the customer name and items of an order.
// @Summary Update order
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body api.OrderBody true "Order"
// @Success 200 {object} api.Envelope{data=order.Order}
// @Failure 400 {object} api.Envelope
// @Failure 404 {object} api.Envelope
// @Router /pedidos/{id} [put]
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrder")
	defer span.End()

	// Existence is checked before the body: a bad id always wins over a bad body.
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, "Pedido no encontrado", nil)
		return
	}
	if _, err := h.orders.Get(ctx, id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respond(w, http.StatusNotFound, "Pedido no encontrado", nil)
			return
		}
		h.internalError(ctx, w, "get order", err)
		return
	}

	in, err := h.validateBody(w, r)
	if err != nil {
		h.log.Warn(ctx, "update order rejected", "order_id", id, "reason", err.Error())
		respond(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	o, err := h.orders.Update(ctx, id, in.CustomerName, h.resolver.ResolveItems(in.ProductIDs))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respond(w, http.StatusNotFound, "Pedido no encontrado", nil)
			return
		}
		h.internalError(ctx, w, "update order", err)
		return
	}
	h.log.Info(ctx, "order updated", "order_id", o.ID, "total", o.Total.String())
	respond(w, http.StatusOK, "Pedido actualizado correctamente", o)
}

// deleteOrder removes an order and echoes it back.
// @Summary Delete order
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} api.Envelope{data=order.Order}
// @Failure 404 {object} api.Envelope
// @Router /pedidos/{id} [delete]
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrder")
	defer span.End()

	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, "Pedido no encontrado", nil)
		return
	}
	o, err := h.orders.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respond(w, http.StatusNotFound, "Pedido no encontrado", nil)
			return
		}
		h.internalError(ctx, w, "delete order", err)
		return
	}
	h.log.Info(ctx, "order deleted", "order_id", o.ID)
	respond(w, http.StatusOK, "Pedido eliminado correctamente", o)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "ok", nil)
}

// validateBody decodes the body and checks that every product id resolves.
func (h *Handler) validateBody(w http.ResponseWriter, r *http.Request) (orderInput, error) {
	in, err := decodeOrderInput(w, r)
	if err != nil {
		return orderInput{}, err
	}
	if !h.resolver.AllIDsValid(in.ProductIDs) {
		return orderInput{}, &ValidationError{Message: msgUnknownIDs}
	}
	return in, nil
}

// replay returns the order previously created under key, if it still exists.
func (h *Handler) replay(ctx context.Context, key string) (order.Order, bool, error) {
	id, ok, err := h.idem.Recall(ctx, key)
	if err != nil || !ok {
		return order.Order{}, false, err
	}
	o, err := h.orders.Get(ctx, id)
	if errors.Is(err, order.ErrNotFound) {
		return order.Order{}, false, nil
	}
	if err != nil {
		return order.Order{}, false, err
	}
	return o, true, nil
}

func (h *Handler) internalError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	h.log.Error(ctx, op, "error", err)
	respond(w, http.StatusInternalServerError, msgInternalErr, nil)
}

// OrderBody documents the POST/PUT payload.
type OrderBody struct {
	CustomerName string  `json:"customerName" example:"Ana"`
	ProductIDs   []int64 `json:"productIds" example:"1,3"`
}
