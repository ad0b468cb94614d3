package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AdminVerifier checks an admin credential presented on the websocket
// handshake. Injected so the hub stays decoupled from any auth scheme.
type AdminVerifier func(token string) bool

// HandleWebSocket upgrades the connection and registers the client.
// Patients connect with ?patient_id=<hex> and only receive their own
// events; dashboards connect with ?admin_token=<credential> and receive
// every ledger event.
func HandleWebSocket(c echo.Context, hub *Hub, verifyAdmin AdminVerifier) error {
	var patientID primitive.ObjectID
	admin := false

	if token := c.QueryParam("admin_token"); token != "" {
		if verifyAdmin == nil || !verifyAdmin(token) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
		}
		admin = true
	} else {
		id, err := primitive.ObjectIDFromHex(c.QueryParam("patient_id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "patient_id or admin_token is required")
		}
		patientID = id
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		PatientID: patientID,
		Admin:     admin,
		Conn:      conn,
	}

	hub.register <- client

	conn.WriteJSON(Event{
		Type:    "connected",
		Message: "WebSocket connection established",
	})

	// Drain reads until the peer goes away, then unregister.
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
