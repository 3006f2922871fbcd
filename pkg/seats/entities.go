package seats

import (
	"encoding/json"
	"time"
)

// Object statuses understood by the server.
const (
	StatusFree            = "free"
	StatusBooked          = "booked"
	StatusReservedByToken = "reservedByToken"
)

// StatusChange is one entry of an event's status change log.
type StatusChange struct {
	ID          int64           `json:"id"`
	EventID     int64           `json:"eventId"`
	Status      string          `json:"status"`
	Quantity    int             `json:"quantity"`
	ObjectLabel string          `json:"objectLabel"`
	Date        time.Time       `json:"date"`
	OrderID     string          `json:"orderId,omitempty"`
	ExtraData   json.RawMessage `json:"extraData,omitempty"`
	HoldToken   string          `json:"holdToken,omitempty"`
}

// Chart is a floor plan.
type Chart struct {
	ID                           int64    `json:"id"`
	Key                          string   `json:"key"`
	Name                         string   `json:"name"`
	Status                       string   `json:"status"`
	Tags                         []string `json:"tags"`
	PublishedVersionThumbnailURL string   `json:"publishedVersionThumbnailUrl"`
	DraftVersionThumbnailURL     string   `json:"draftVersionThumbnailUrl,omitempty"`
	Events                       []Event  `json:"events,omitempty"`
	Archived                     bool     `json:"archived"`
}

// Event is a chart instance objects can be booked in.
type Event struct {
	ID                    int64           `json:"id"`
	Key                   string          `json:"key"`
	ChartKey              string          `json:"chartKey"`
	BookWholeTables       bool            `json:"bookWholeTables"`
	SupportsBestAvailable bool            `json:"supportsBestAvailable"`
	TableBookingModes     json.RawMessage `json:"tableBookingModes,omitempty"`
	ForSaleConfig         *ForSaleConfig  `json:"forSaleConfig,omitempty"`
	CreatedOn             *time.Time      `json:"createdOn,omitempty"`
	UpdatedOn             *time.Time      `json:"updatedOn,omitempty"`
}

// ForSaleConfig restricts which objects of an event are for sale.
type ForSaleConfig struct {
	ForSale    bool     `json:"forSale"`
	Objects    []string `json:"objects"`
	Categories []string `json:"categories"`
}

// Subaccount is an account owned by the main account.
type Subaccount struct {
	ID          int64  `json:"id"`
	SecretKey   string `json:"secretKey"`
	DesignerKey string `json:"designerKey"`
	PublicKey   string `json:"publicKey"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Active      bool   `json:"active"`
}

// Workspace separates charts and events within an account.
type Workspace struct {
	ID        int64           `json:"id"`
	Key       string          `json:"key"`
	SecretKey string          `json:"secretKey"`
	Name      string          `json:"name"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	IsMain    bool            `json:"isMain"`
	IsTest    bool            `json:"isTest"`
	IsActive  bool            `json:"isActive"`
}

// HoldToken reserves objects temporarily.
type HoldToken struct {
	HoldToken        string    `json:"holdToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	ExpiresInSeconds int       `json:"expiresInSeconds"`
}

// LabelAndType is one level of an object label.
type LabelAndType struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Labels describes an object label and its parent.
type Labels struct {
	Own      LabelAndType  `json:"own"`
	Parent   *LabelAndType `json:"parent,omitempty"`
	Section  string        `json:"section,omitempty"`
	Entrance string        `json:"entrance,omitempty"`
}

// ObjectInfo is the state of one object in an event.
type ObjectInfo struct {
	Label         string          `json:"label"`
	Labels        *Labels         `json:"labels,omitempty"`
	Status        string          `json:"status"`
	CategoryKey   string          `json:"categoryKey,omitempty"`
	CategoryLabel string          `json:"categoryLabel,omitempty"`
	ObjectType    string          `json:"objectType,omitempty"`
	TicketType    string          `json:"ticketType,omitempty"`
	OrderID       string          `json:"orderId,omitempty"`
	HoldToken     string          `json:"holdToken,omitempty"`
	ForSale       bool            `json:"forSale"`
	Quantity      int             `json:"quantity,omitempty"`
	ExtraData     json.RawMessage `json:"extraData,omitempty"`
}

// ChartObjectInfo is one row of a chart report.
type ChartObjectInfo struct {
	Label         string  `json:"label"`
	Labels        *Labels `json:"labels,omitempty"`
	CategoryKey   string  `json:"categoryKey,omitempty"`
	CategoryLabel string  `json:"categoryLabel,omitempty"`
	ObjectType    string  `json:"objectType"`
	Section       string  `json:"section,omitempty"`
	Entrance      string  `json:"entrance,omitempty"`
	Capacity      int     `json:"capacity,omitempty"`
}

// ChangeObjectStatusResult lists the objects whose status changed.
type ChangeObjectStatusResult struct {
	Objects map[string]ObjectInfo `json:"objects"`
}

// ObjectRef names an object in a status change request. General admission
// areas take a quantity.
type ObjectRef struct {
	ObjectID string
	Quantity int
}

// Object is shorthand for a seat, table or booth reference.
func Object(id string) ObjectRef {
	return ObjectRef{ObjectID: id}
}

// MarshalJSON writes plain ids as strings and quantities as objects.
func (o ObjectRef) MarshalJSON() ([]byte, error) {
	if o.Quantity == 0 {
		return json.Marshal(o.ObjectID)
	}
	return json.Marshal(struct {
		ObjectID string `json:"objectId"`
		Quantity int    `json:"quantity"`
	}{o.ObjectID, o.Quantity})
}
