package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Daskott/addressbook/server/directory"
	"github.com/Daskott/addressbook/server/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const CONTACT_DELETED_MSG = "Contact deleted successfully!"

// ResponsePayload is the body of every error response
type ResponsePayload struct {
	Errors  []string `json:"errors"`
	Success bool     `json:"success"`
}

type contactHandlers struct {
	contacts *directory.Service
	logg     *zap.SugaredLogger
}

func (h *contactHandlers) listContacts(rw http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeJSON(rw, contacts, http.StatusOK)
}

// getContact responds with 'null' when the contact does not exist
func (h *contactHandlers) getContact(rw http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeJSON(rw, contact, http.StatusOK)
}

func (h *contactHandlers) createContact(rw http.ResponseWriter, r *http.Request) {
	data := models.Contact{}

	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Create(r.Context(), data)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeJSON(rw, contact, http.StatusOK)
}

// updateContact responds with 'null' when the contact does not exist
func (h *contactHandlers) updateContact(rw http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	data := models.Contact{}
	err = json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, data)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeJSON(rw, contact, http.StatusOK)
}

// deleteContact fails with a server error when the contact does not exist
func (h *contactHandlers) deleteContact(rw http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	err = h.contacts.Delete(r.Context(), id)
	if errors.Is(err, directory.ErrNotFound) {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{"No contact found!"}}, http.StatusInternalServerError)
		return
	}

	if err != nil {
		writeResponse(rw, h.logg, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeText(rw, CONTACT_DELETED_MSG, http.StatusOK)
}

func contactID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 0)
	if err != nil {
		return 0, errors.New("invalid contact id")
	}

	return uint(id), nil
}
