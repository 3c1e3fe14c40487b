package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/a3tai/nephrolist-reader/internal/intake"
	"github.com/a3tai/nephrolist-reader/internal/record"
	"github.com/a3tai/nephrolist-reader/internal/session"
)

const (
	sessionCookie = "nephrolist_session"
	uploadField   = "file"

	// multipartMemory is how much of a form ParseMultipartForm keeps in
	// memory before spilling file parts to disk.
	multipartMemory = 32 << 20
	// formOverhead allows for multipart headers and boundaries on top of
	// the file itself.
	formOverhead = 1 << 20
)

// Page copy, in Portuguese like the users.
const (
	pageTitle      = "Leitor de PDFs - NephroList"
	pageHeading    = "Leitor de Evoluções Clínicas - NephroList"
	pageDesc       = "Envie um PDF gerado pelo prontuário eletrônico para extrair dados clínicos estruturados."
	uploadLabel    = "Escolha um arquivo PDF"
	successMessage = "Dados extraídos com sucesso!"
	downloadLabel  = "Baixar dados como CSV"
)

type pageData struct {
	PageTitle      string
	Heading        string
	Description    string
	UploadLabel    string
	Accept         string
	Error          string
	Shown          bool
	SuccessMessage string
	Table          record.TabularView
	DownloadName   string
	DownloadLabel  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, state := s.session(w, r)
	s.render(w, http.StatusOK, state, "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, state := s.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.gate.MaxFileSize()+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.render(w, http.StatusRequestEntityTooLarge, state,
				fmt.Sprintf("Arquivo muito grande (máximo %d MB).", s.gate.MaxFileSize()/(1024*1024)))
			return
		}
		log.Printf("parse form error: %v", err)
		s.render(w, http.StatusBadRequest, state, "Formulário de envio inválido.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	upload, err := uploadFromRequest(r)
	if err != nil {
		log.Printf("form file error: %v", err)
		s.render(w, http.StatusBadRequest, state, "Formulário de envio inválido.")
		return
	}

	trigger, err := s.gate.Accept(upload)
	switch {
	case errors.Is(err, intake.ErrNoFile):
		// Nothing uploaded: nothing changes.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case errors.Is(err, intake.ErrNotPDF):
		s.render(w, http.StatusBadRequest, state, "Apenas arquivos PDF são aceitos.")
		return
	case errors.Is(err, intake.ErrTooLarge):
		s.render(w, http.StatusRequestEntityTooLarge, state,
			fmt.Sprintf("Arquivo muito grande (máximo %d MB).", s.gate.MaxFileSize()/(1024*1024)))
		return
	case err != nil:
		log.Printf("intake error: %v", err)
		s.render(w, http.StatusInternalServerError, state, "Erro interno.")
		return
	}

	next, err := session.Activate(r.Context(), s.source, trigger)
	if err != nil {
		log.Printf("export error: %v", err)
		s.render(w, http.StatusInternalServerError, state, "Erro interno.")
		return
	}
	s.sessions.Put(id, next)

	if s.config.IsDebug() {
		log.Printf("session %s: accepted %s (%d bytes)", id, trigger.Filename, trigger.Size)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	_, state := s.session(w, r)
	if !state.Shown() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", record.CSVMediaType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+record.CSVFileName)
	w.Header().Set("Content-Length", strconv.Itoa(len(state.CSV)))
	if _, err := w.Write(state.CSV); err != nil {
		log.Printf("write CSV error: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// uploadFromRequest returns the uploaded file part, or nil when the form
// carries no file. The file body is never read.
func uploadFromRequest(r *http.Request) (*intake.Upload, error) {
	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = file.Close()

	return &intake.Upload{Filename: header.Filename, Size: header.Size}, nil
}

// session returns the caller's session id and state, issuing a new id when
// the request carries none or an unknown one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, session.State) {
	if c, err := r.Cookie(sessionCookie); err == nil && session.ValidID(c.Value) {
		if state, ok := s.sessions.Get(c.Value); ok {
			return c.Value, state
		}
	}

	s.sessions.Sweep()

	id := session.NewID()
	s.sessions.Put(id, session.State{})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, session.State{}
}

func (s *Server) render(w http.ResponseWriter, status int, state session.State, errMsg string) {
	data := pageData{
		PageTitle:      pageTitle,
		Heading:        pageHeading,
		Description:    pageDesc,
		UploadLabel:    uploadLabel,
		Accept:         intake.AcceptedExtension,
		Error:          errMsg,
		Shown:          state.Shown(),
		SuccessMessage: successMessage,
		Table:          state.Table,
		DownloadName:   record.CSVFileName,
		DownloadLabel:  downloadLabel,
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		log.Printf("render error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("write page error: %v", err)
	}
}
