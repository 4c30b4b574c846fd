package doclytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("test-token"))
}

func TestListDocumentsRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		io.WriteString(w, `[
			{"id":"doc-1","userId":"user-1","fileName":"contrato.pdf","ocrStatus":"COMPLETED","summary":"Resumo do contrato."},
			{"id":"doc-2","userId":"user-1","fileName":"recibo.png","ocrStatus":"PROCESSING"}
		]`)
	})

	docs, err := c.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if gotMethod != http.MethodGet || gotPath != "/documents" {
		t.Fatalf("request = %s %s, want GET /documents", gotMethod, gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected a request id header on every request")
	}
	if len(docs) != 2 || docs[0].ID != "doc-1" || docs[0].Summary != "Resumo do contrato." {
		t.Fatalf("docs = %+v, want the decoded listing", docs)
	}
	if docs[1].OcrStatus != domain.StatusProcessing {
		t.Fatalf("status = %s, want PROCESSING", docs[1].OcrStatus)
	}
}

func TestGetDocumentPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1" {
			t.Errorf("path = %s, want /documents/doc-1", r.URL.Path)
		}
		io.WriteString(w, `{"id":"doc-1","ocrStatus":"PENDING"}`)
	})

	doc, err := c.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.OcrStatus != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING", doc.OcrStatus)
	}
}

func TestUploadDocumentSendsMultipart(t *testing.T) {
	var gotFilename, gotField string
	var gotContent []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/upload" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s, want POST /documents/upload", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for field, headers := range r.MultipartForm.File {
			gotField = field
			gotFilename = headers[0].Filename
			f, _ := headers[0].Open()
			gotContent, _ = io.ReadAll(f)
			f.Close()
		}
		io.WriteString(w, `{"id":"doc-9","fileName":"recibo.png","ocrStatus":"PENDING"}`)
	})

	doc, err := c.UploadDocument(context.Background(), "recibo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if gotField != "file" {
		t.Fatalf("form field = %q, want file", gotField)
	}
	if gotFilename != "recibo.png" || string(gotContent) != "png-bytes" {
		t.Fatalf("filename = %q content = %q", gotFilename, gotContent)
	}
	if doc.ID != "doc-9" {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestAskQuestionPayload(t *testing.T) {
	var payload map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1/interactions/ask" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		io.WriteString(w, `{"id":"i-1","documentId":"doc-1","question":"Qual o valor total?","answer":"R$ 1.500,00"}`)
	})

	interaction, err := c.AskQuestion(context.Background(), "doc-1", "Qual o valor total?")
	if err != nil {
		t.Fatalf("AskQuestion: %v", err)
	}
	if payload["question"] != "Qual o valor total?" {
		t.Fatalf("payload = %v", payload)
	}
	if interaction.Answer != "R$ 1.500,00" {
		t.Fatalf("interaction = %+v", interaction)
	}
}

func TestClearInteractionsRequestShape(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.ClearInteractions(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ClearInteractions: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/documents/doc-1/interactions" {
		t.Fatalf("request = %s %s, want DELETE /documents/doc-1/interactions", gotMethod, gotPath)
	}
}

func TestStatusErrorCarriesServiceMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"Arquivo muito grande"}`)
	})

	_, err := c.UploadDocument(context.Background(), "big.pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Message != "Arquivo muito grande" {
		t.Fatalf("statusErr = %+v", statusErr)
	}
	if got := ServiceMessage(err, "Erro ao fazer upload"); got != "Arquivo muito grande" {
		t.Fatalf("ServiceMessage = %q, want the service text", got)
	}
	if got := ServiceMessage(errors.New("plain"), "Erro ao fazer upload"); got != "Erro ao fazer upload" {
		t.Fatalf("ServiceMessage fallback = %q", got)
	}
}

func TestUnauthorizedMapsToErrUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Credenciais inválidas"}`)
	})

	_, err := c.Me(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized kind", err)
	}
}

func TestNotFoundMapsToErrDocumentNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetDocument(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want not found kind", err)
	}
}

func TestTransportFailureMapsToConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(srv.URL, staticToken(""))
	srv.Close()

	_, err := c.GetDocument(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrConnectivity) {
		t.Fatalf("err = %v, want connectivity kind", err)
	}
}

func TestContextCancellationIsNotConnectivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.GetDocument(ctx, "doc-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsKind(err, domain.ErrConnectivity) {
		t.Fatalf("err = %v, cancellation must pass through unwrapped", err)
	}
}

func TestLoginDecodesSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s, want POST /users/login", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, login must be unauthenticated", auth)
		}
		io.WriteString(w, `{"access_token":"jwt-token","user":{"id":"user-1","email":"ana@example.com","name":"Ana"}}`)
	})
	c.tokens = staticToken("")

	session, err := c.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.AccessToken != "jwt-token" || session.User.Name != "Ana" {
		t.Fatalf("session = %+v", session)
	}
}

func TestDownloadDocumentStreamsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1/download" {
			t.Errorf("path = %s, want /documents/doc-1/download", r.URL.Path)
		}
		io.WriteString(w, "annotated text")
	})

	body, err := c.DownloadDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("DownloadDocument: %v", err)
	}
	defer body.Close()
	content, _ := io.ReadAll(body)
	if string(content) != "annotated text" {
		t.Fatalf("content = %q", content)
	}
}
