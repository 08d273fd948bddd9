package rutos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CellInfo holds per-cell radio information for a modem. Several fields
// arrive as either a string or a number depending on firmware, so they keep
// the raw decoded value.
type CellInfo struct {
	Mcc       string `json:"mcc"`
	Mnc       string `json:"mnc"`
	CellID    string `json:"cellid"`
	UEState   *int   `json:"ue_state"`
	Lac       string `json:"lac"`
	Tac       string `json:"tac"`
	Pcid      *int   `json:"pcid"`
	Earfcn    any    `json:"earfcn"`
	Arfcn     any    `json:"arfcn"`
	Uarfcn    any    `json:"uarfcn"`
	NrArfcn   any    `json:"nr-arfcn"`
	Rsrp      any    `json:"rsrp"`
	Rsrq      any    `json:"rsrq"`
	Sinr      any    `json:"sinr"`
	Bandwidth string `json:"bandwidth"`
}

// ServiceModes lists the service modes available per network type.
type ServiceModes struct {
	Modes2G    []string `json:"2G"`
	Modes3G    []string `json:"3G"`
	Modes4G    []string `json:"4G"`
	ModesNB    []string `json:"NB"`
	Modes5GNSA []string `json:"5G_NSA"`
	Modes5GSA  []string `json:"5G_SA"`
}

// CarrierAggregationSignal holds signal values for one aggregated carrier.
type CarrierAggregationSignal struct {
	Band      string `json:"band"`
	Bandwidth string `json:"bandwidth"`
	Sinr      *int   `json:"sinr"`
	Rsrq      *int   `json:"rsrq"`
	Rsrp      *int   `json:"rsrp"`
	Pcid      *int   `json:"pcid"`
	Frequency any    `json:"frequency"`
	Primary   *bool  `json:"primary"`
}

// ModemStatusFull is the status payload for a modem that is online.
type ModemStatusFull struct {
	ID                 string                     `json:"id"`
	Imei               string                     `json:"imei"`
	Model              string                     `json:"model"`
	CellInfo           []CellInfo                 `json:"cell_info"`
	DynamicMTU         bool                       `json:"dynamic_mtu"`
	ServiceModes       *ServiceModes              `json:"service_modes"`
	Lac                string                     `json:"lac"`
	Tac                string                     `json:"tac"`
	Name               string                     `json:"name"`
	Index              *int                       `json:"index"`
	SimCount           int                        `json:"sim_count"`
	Version            string                     `json:"version"`
	Manufacturer       string                     `json:"manufacturer"`
	Builtin            bool                       `json:"builtin"`
	Mode               int                        `json:"mode"`
	Primary            bool                       `json:"primary"`
	MultiAPN           bool                       `json:"multi_apn"`
	IPv6               bool                       `json:"ipv6"`
	VolteSupported     bool                       `json:"volte_supported"`
	Auto3GBands        bool                       `json:"auto_3g_bands"`
	OperatorsScan      bool                       `json:"operators_scan"`
	MobileDfota        bool                       `json:"mobile_dfota"`
	NoUSSD             bool                       `json:"no_ussd"`
	FramedRouting      bool                       `json:"framed_routing"`
	LowSignalReconnect bool                       `json:"low_signal_reconnect"`
	ActiveSim          int                        `json:"active_sim"`
	Conntype           string                     `json:"conntype"`
	Simstate           string                     `json:"simstate"`
	SimstateID         int                        `json:"simstate_id"`
	DataConnState      string                     `json:"data_conn_state"`
	DataConnStateID    int                        `json:"data_conn_state_id"`
	TxBytes            int64                      `json:"txbytes"`
	RxBytes            int64                      `json:"rxbytes"`
	Baudrate           int                        `json:"baudrate"`
	IsBusy             int                        `json:"is_busy"`
	DataOff            bool                       `json:"data_off"`
	BusyState          string                     `json:"busy_state"`
	BusyStateID        int                        `json:"busy_state_id"`
	Pinstate           string                     `json:"pinstate"`
	PinstateID         int                        `json:"pinstate_id"`
	OperatorState      string                     `json:"operator_state"`
	OperatorStateID    int                        `json:"operator_state_id"`
	Rssi               *int                       `json:"rssi"`
	Operator           string                     `json:"operator"`
	Provider           string                     `json:"provider"`
	Ntype              string                     `json:"ntype"`
	Imsi               string                     `json:"imsi"`
	Iccid              string                     `json:"iccid"`
	Cellid             string                     `json:"cellid"`
	Rscp               string                     `json:"rscp"`
	Ecio               string                     `json:"ecio"`
	Rsrp               *int                       `json:"rsrp"`
	Rsrq               *int                       `json:"rsrq"`
	Sinr               *int                       `json:"sinr"`
	Pinleft            *int                       `json:"pinleft"`
	Volte              bool                       `json:"volte"`
	ScBandAv           string                     `json:"sc_band_av"`
	CaSignal           []CarrierAggregationSignal `json:"ca_signal"`
	Temperature        *int                       `json:"temperature"`
	EsimProfile        string                     `json:"esim_profile"`
	MobileStage        *int                       `json:"mobile_stage"`
	GnssState          *int                       `json:"gnss_state"`
	Nr5gSaDisabled     bool                       `json:"nr5g_sa_disabled"`
	WwanGnssConflict   bool                       `json:"wwan_gnss_conflict"`
	ModemStateID       int                        `json:"modem_state_id"`
	SimSwitchEnabled   bool                       `json:"sim_switch_enabled"`
	Serial             string                     `json:"serial"`
	Auto2GBands        bool                       `json:"auto_2g_bands"`
	CfgVersion         string                     `json:"cfg_version"`
	CSD                bool                       `json:"csd"`
	Pukleft            *int                       `json:"pukleft"`
	Band               string                     `json:"band"`
	Auto5GMode         bool                       `json:"auto_5g_mode"`

	// Deprecated wire fields still emitted by older firmware
	State      string `json:"state"`
	StateID    int    `json:"state_id"`
	Signal     *int   `json:"signal"`
	Oper       string `json:"oper"`
	Netstate   string `json:"netstate"`
	NetstateID int    `json:"netstate_id"`
}

// ModemStatusOffline is the limited status payload for a modem that is not
// currently online.
type ModemStatusOffline struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Offline       string `json:"offline"`
	Blocked       string `json:"blocked"`
	Disabled      string `json:"disabled"`
	Builtin       bool   `json:"builtin"`
	Primary       bool   `json:"primary"`
	SimCount      int    `json:"sim_count"`
	Mode          int    `json:"mode"`
	MultiAPN      bool   `json:"multi_apn"`
	OperatorsScan bool   `json:"operators_scan"`
	DynamicMTU    bool   `json:"dynamic_mtu"`
	IPv6          bool   `json:"ipv6"`
	Volte         bool   `json:"volte"`
	EsimProfile   string `json:"esim_profile"`
}

// ModemStatus is one entry of the /modems/status list. The device mixes two
// shapes in a single response, so exactly one of Full and Offline is set.
type ModemStatus struct {
	Full    *ModemStatusFull
	Offline *ModemStatusOffline
}

// IsOnline reports whether the entry carries the full (online) status shape.
func (m ModemStatus) IsOnline() bool {
	return m.Full != nil
}

// ID returns the modem id from whichever shape is present.
func (m ModemStatus) ID() string {
	if m.Full != nil {
		return m.Full.ID
	}
	if m.Offline != nil {
		return m.Offline.ID
	}
	return ""
}

// Name returns the modem name from whichever shape is present.
func (m ModemStatus) Name() string {
	if m.Full != nil {
		return m.Full.Name
	}
	if m.Offline != nil {
		return m.Offline.Name
	}
	return ""
}

// UnmarshalJSON discriminates the entry shape per entry, not per response:
// only non-online modems carry the "offline" field.
func (m *ModemStatus) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["offline"]; ok {
		m.Offline = new(ModemStatusOffline)
		m.Full = nil
		return json.Unmarshal(data, m.Offline)
	}
	m.Full = new(ModemStatusFull)
	m.Offline = nil
	return json.Unmarshal(data, m.Full)
}

// MarshalJSON writes back whichever shape is present.
func (m ModemStatus) MarshalJSON() ([]byte, error) {
	if m.Offline != nil {
		return json.Marshal(m.Offline)
	}
	return json.Marshal(m.Full)
}

// ueStates maps UE state codes to descriptions, per 3GPP TS 24.008.
var ueStates = map[int]string{
	0: "Detached",
	1: "Attached",
	2: "Connecting",
	3: "Connected",
	4: "Idle",
	5: "Disconnecting",
	6: "Emergency Attached",
	7: "Limited Service",
	8: "No Service",
}

// UEStateDescription decodes a User Equipment state code.
func UEStateDescription(code int) string {
	if desc, ok := ueStates[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown UE state (%d)", code)
}

var mobileStages = map[int]string{
	0:  "Unknown state",
	1:  "Waiting for SIM to be inserted",
	2:  "SIM failure",
	3:  "Idling",
	4:  "Waiting for user action",
	5:  "Waiting for PIN to be entered",
	6:  "Waiting for PUK to be entered",
	7:  "SIM blocked, no PUK attempts left",
	8:  "Initializing mobile connection",
	9:  "Configuring Voice over LTE (VoLTE)",
	10: "Setting up connection settings",
	11: "Scanning for available operators",
	12: "Currently handling SIM PIN event",
	13: "Currently handling SIM switch event",
	14: "Initializing modem",
	15: "Changed default SIM card",
	16: "Setting up data connection settings",
	17: "Clearing PDP context",
	18: "Currently handling config",
	19: "Mobile connection setup is complete",
}

// MobileStageDescription decodes a mobile connection stage code.
func MobileStageDescription(code int) string {
	if desc, ok := mobileStages[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown mobile stage (%d)", code)
}

// ModemActionData is the (empty) payload of a modem action response.
type ModemActionData struct{}

// Modems is the client for the /modems endpoints.
type Modems struct {
	auth *Auth
}

// NewModems creates a modems endpoint client.
func NewModems(auth *Auth) *Modems {
	return &Modems{auth: auth}
}

// GetStatus returns the status of all modems. Each entry is either online
// (full status) or offline (limited status); input order is preserved.
func (m *Modems) GetStatus(ctx context.Context) (*Response[[]ModemStatus], error) {
	resp, err := m.auth.Request(ctx, http.MethodGet, "modems/status", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading modems status response: %w", err)
	}
	return decodeResponse[[]ModemStatus](payload)
}

// Reboot reboots the given modem.
func (m *Modems) Reboot(ctx context.Context, modemID string) (*Response[ModemActionData], error) {
	return m.action(ctx, modemID, "reboot")
}

// RestartConnection restarts the mobile connection of the given modem.
func (m *Modems) RestartConnection(ctx context.Context, modemID string) (*Response[ModemActionData], error) {
	return m.action(ctx, modemID, "restart_connection")
}

// SwitchSIM switches the given modem to its next SIM card.
func (m *Modems) SwitchSIM(ctx context.Context, modemID string) (*Response[ModemActionData], error) {
	return m.action(ctx, modemID, "switch_sim")
}

func (m *Modems) action(ctx context.Context, modemID, action string) (*Response[ModemActionData], error) {
	endpoint := fmt.Sprintf("modems/%s/actions/%s", modemID, action)
	resp, err := m.auth.Request(ctx, http.MethodPost, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading modem action response: %w", err)
	}
	return decodeResponse[ModemActionData](payload)
}

// OnlineModems filters a modems status response down to the online entries.
func OnlineModems(resp *Response[[]ModemStatus]) []ModemStatusFull {
	if resp == nil || !resp.Success || resp.Data == nil {
		return nil
	}
	var online []ModemStatusFull
	for _, entry := range *resp.Data {
		if entry.Full != nil {
			online = append(online, *entry.Full)
		}
	}
	return online
}

// OfflineModems filters a modems status response down to the offline entries.
func OfflineModems(resp *Response[[]ModemStatus]) []ModemStatusOffline {
	if resp == nil || !resp.Success || resp.Data == nil {
		return nil
	}
	var offline []ModemStatusOffline
	for _, entry := range *resp.Data {
		if entry.Offline != nil {
			offline = append(offline, *entry.Offline)
		}
	}
	return offline
}
