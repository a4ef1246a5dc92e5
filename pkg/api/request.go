package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

const (
	msgBadJSON     = "El cuerpo de la solicitud no es un JSON válido"
	msgRequired    = "El nombre de usuario y los IDs de productos son obligatorios"
	msgUnknownIDs  = "Uno o más IDs de productos no existen"
	msgInternalErr = "Error interno del servidor"
)

// orderRequest is the raw POST/PUT body. The Spanish field names of the
// first version of the API are accepted when the English ones are absent.
type orderRequest struct {
	CustomerName  json.RawMessage `json:"customerName"`
	ProductIDs    json.RawMessage `json:"productIds"`
	NombreUsuario json.RawMessage `json:"nombreUsuario"`
	ProductosIDs  json.RawMessage `json:"productosIds"`
}

// orderInput is the validated shape of an order body. Product ids stay raw
// until the resolver normalizes them.
type orderInput struct {
	CustomerName string            `validate:"required"`
	ProductIDs   []json.RawMessage `validate:"required,min=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeOrderInput(w http.ResponseWriter, r *http.Request) (orderInput, error) {
	var req orderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return orderInput{}, &ValidationError{Message: msgRequired}
		}
		return orderInput{}, &ValidationError{Message: msgBadJSON}
	}

	var in orderInput
	if raw := firstPresent(req.CustomerName, req.NombreUsuario); raw != nil {
		if err := json.Unmarshal(raw, &in.CustomerName); err != nil {
			return orderInput{}, &ValidationError{Message: msgRequired}
		}
	}
	if raw := firstPresent(req.ProductIDs, req.ProductosIDs); raw != nil {
		if err := json.Unmarshal(raw, &in.ProductIDs); err != nil {
			return orderInput{}, &ValidationError{Message: msgRequired}
		}
	}
	if err := validate.Struct(in); err != nil {
		return orderInput{}, &ValidationError{Message: msgRequired}
	}
	return in, nil
}

func firstPresent(raws ...json.RawMessage) json.RawMessage {
	for _, raw := range raws {
		if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return raw
		}
	}
	return nil
}
