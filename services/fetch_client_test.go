package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetchClient(renderProxyBase string) *FetchClient {
	return NewFetchClient(FetchConfig{
		Timeout:        5 * time.Second,
		RenderProxyURL: renderProxyBase,
	})
}

func TestFetchHTMLAttemptBudget(t *testing.T) {
	var directHits, proxyHits atomic.Int64

	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		directHits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer direct.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxyHits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer proxy.Close()

	client := newTestFetchClient(proxy.URL + "/")

	_, err := client.FetchHTML(context.Background(), direct.URL+"/page")
	if err == nil {
		t.Fatal("expected an error when every transport fails")
	}

	var fErr *FetchError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fErr.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", fErr.Attempts)
	}
	if fErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403 recorded, got %d", fErr.Status)
	}
	if total := directHits.Load() + proxyHits.Load(); total != 3 {
		t.Errorf("expected exactly 3 requests across transports, got %d", total)
	}
}

func TestFetchPDFFallsBackToRenderProxy(t *testing.T) {
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer direct.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 pretend pdf bytes"))
	}))
	defer proxy.Close()

	client := newTestFetchClient(proxy.URL + "/")

	body, err := client.FetchPDF(context.Background(), direct.URL+"/paper.pdf")
	if err != nil {
		t.Fatalf("expected proxy fallback to succeed: %v", err)
	}
	if string(body) != "%PDF-1.4 pretend pdf bytes" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := newTestFetchClient("")

	if _, err := client.FetchPDF(context.Background(), srv.URL+"/x.pdf"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotUA != browserUserAgent {
		t.Errorf("unexpected User-Agent: %q", gotUA)
	}
	if gotAccept != "application/pdf,*/*" {
		t.Errorf("unexpected Accept: %q", gotAccept)
	}
	if gotReferer == "" {
		t.Error("Referer header missing")
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	client := NewFetchClient(FetchConfig{
		Timeout:        5 * time.Second,
		MaxBodyBytes:   1024,
		RenderProxyURL: srv.URL + "/",
	})

	if _, err := client.FetchPDF(context.Background(), srv.URL+"/big.pdf"); err == nil {
		t.Fatal("expected an error for a body over the size limit")
	}
}
