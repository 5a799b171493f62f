package collector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scanfleet/robot"
	"scanfleet/sim"
)

func testServer(handler http.HandlerFunc) (*httptest.Server, *Client) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, 5*time.Second)
	return srv, client
}

func sampleReport() *robot.Report {
	return &robot.Report{
		RobotID:   "RB-007",
		Timestamp: "2024-03-01T12:00:00.000000Z",
		Location:  sim.Location{Zone: "C", Row: 4, Shelf: 9},
		ScanResults: []sim.ScanResult{
			{ProductID: "TEL-4567", ProductName: "Router RT-AC68U", Quantity: 42, Status: sim.StatusLowStock},
		},
		BatteryLevel:   77,
		NextCheckpoint: "C-5-9",
	}
}

func TestSendReport(t *testing.T) {
	srv, client := testServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ReportPath {
			t.Errorf("path = %q, want %q", r.URL.Path, ReportPath)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token_RB-007" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var rep robot.Report
		if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if rep.RobotID != "RB-007" {
			t.Errorf("robot_id = %q", rep.RobotID)
		}
		if rep.Location.Zone != "C" || rep.NextCheckpoint != "C-5-9" {
			t.Errorf("report = %+v", rep)
		}
		if len(rep.ScanResults) != 1 || rep.ScanResults[0].Status != sim.StatusLowStock {
			t.Errorf("scan_results = %+v", rep.ScanResults)
		}
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	if err := client.SendReport(context.Background(), sampleReport()); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
}

func TestSendReportAcceptsAny2xx(t *testing.T) {
	srv, client := testServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	if err := client.SendReport(context.Background(), sampleReport()); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
}

func TestSendReportStatusError(t *testing.T) {
	srv, client := testServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid robot id"}`))
	})
	defer srv.Close()

	err := client.SendReport(context.Background(), sampleReport())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", se.Code)
	}
	if se.Body != `{"error":"invalid robot id"}` {
		t.Errorf("body = %q", se.Body)
	}
}

func TestSendReportTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	err := client.SendReport(context.Background(), sampleReport())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
}

func TestSendReportConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	if err := client.SendReport(context.Background(), sampleReport()); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient("http://backend:3000", 0)
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.BaseURL() != "http://backend:3000" {
		t.Errorf("base url = %q", c.BaseURL())
	}
}
