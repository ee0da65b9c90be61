package internal

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	datafeed "github.com/fazecat/zonewatch/Internal/database"
	"github.com/fazecat/zonewatch/Internal/utils/config"
	"github.com/fazecat/zonewatch/Internal/utils/scanner"
)

// runScan is swappable in tests.
var runScan = scanner.PerformScan

type API struct {
	Config     *config.Config
	JWTManager *JWTManager
}

func (api *API) HandleGetActiveZones(w http.ResponseWriter, r *http.Request) {
	zones, err := datafeed.GetActiveZones(r.Context())
	if err != nil {
		log.Printf("Error fetching active zones: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch active zones")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"zones": zones,
		"count": len(zones),
	})
}

func (api *API) HandleGetCompletedZones(w http.ResponseWriter, r *http.Request) {
	days := api.Config.Retention.CompletedZoneDays
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err == nil && parsed > 0 {
			days = parsed
		}
	}

	zones, err := datafeed.GetCompletedZones(r.Context(), days)
	if err != nil {
		log.Printf("Error fetching completed zones: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch completed zones")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"zones": zones,
		"count": len(zones),
	})
}

func (api *API) HandleGetZoneDetail(w http.ResponseWriter, r *http.Request) {
	zoneID, err := strconv.ParseInt(chi.URLParam(r, "zoneID"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid zone id")
		return
	}

	zone, history, err := datafeed.GetZoneWithHistory(r.Context(), zoneID)
	if err != nil {
		log.Printf("Error fetching zone %d: %v", zoneID, err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch zone")
		return
	}
	if zone == nil {
		WriteError(w, http.StatusNotFound, "Zone not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"zone":    zone,
		"history": history,
	})
}

func (api *API) HandleGetScanStatus(w http.ResponseWriter, r *http.Request) {
	sl, err := datafeed.GetLatestScanLog(r.Context())
	if err != nil {
		log.Printf("Error fetching scan status: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch scan status")
		return
	}
	if sl == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"scan": nil})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"scan": sl})
}

// HandleTriggerScan kicks off a scan in the background and returns
// immediately; the result lands in the scan log. The scan gets its own
// context: the request context is canceled the moment the 202 goes out,
// which would abort every database write in the running scan.
func (api *API) HandleTriggerScan(w http.ResponseWriter, r *http.Request) {
	if c := ClaimsFromContext(r.Context()); c != nil {
		log.Printf("Scan triggered by %s", c.UserID)
	}

	go func() {
		if _, err := runScan(context.Background(), api.Config); err != nil {
			log.Printf("Triggered scan error: %v", err)
		}
	}()

	WriteJSON(w, http.StatusAccepted, "scan started")
}

func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expectedUser := os.Getenv("API_USERNAME")
	expectedPass := os.Getenv("API_PASSWORD")
	if expectedUser == "" || expectedPass == "" {
		WriteError(w, http.StatusServiceUnavailable, "API credentials not configured")
		return
	}
	if body.Username != expectedUser || body.Password != expectedPass {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := api.JWTManager.GenerateToken(body.Username, 24)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
