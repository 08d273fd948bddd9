package rutos

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ManufacturingInfo holds manufacturing metadata from /system/device/status.
type ManufacturingInfo struct {
	MacEth string `json:"macEth"`
	Name   string `json:"name"`
	HwVer  string `json:"hwver"`
	Batch  string `json:"batch"`
	Serial string `json:"serial"`
	Mac    string `json:"mac"`
	BlVer  string `json:"blver"`
}

// ReleaseInfo is a firmware release summary.
type ReleaseInfo struct {
	Distribution string `json:"distribution"`
	Revision     string `json:"revision"`
	Version      string `json:"version"`
	Target       string `json:"target"`
	Description  string `json:"description"`
}

// StaticInfo holds firmware and hardware identifiers for the device.
type StaticInfo struct {
	FwVersion   string      `json:"fw_version"`
	Kernel      string      `json:"kernel"`
	System      string      `json:"system"`
	DeviceName  string      `json:"device_name"`
	Hostname    string      `json:"hostname"`
	CPUCount    int         `json:"cpu_count"`
	Release     ReleaseInfo `json:"release"`
	FwBuildDate string      `json:"fw_build_date"`
	Model       string      `json:"model"`
	BoardName   string      `json:"board_name"`
}

// Features lists feature flags advertised by the device.
type Features struct {
	IPv6 bool `json:"ipv6"`
}

// BoardModem is a single modem entry in the board description.
type BoardModem struct {
	ID           string   `json:"id"`
	Num          string   `json:"num"`
	Builtin      bool     `json:"builtin"`
	SimCount     int      `json:"simcount"`
	GpsOut       bool     `json:"gps_out"`
	Primary      bool     `json:"primary"`
	Revision     string   `json:"revision"`
	ModemFuncID  int      `json:"modem_func_id"`
	MultiAPN     bool     `json:"multi_apn"`
	OperatorScan bool     `json:"operator_scan"`
	DHCPFilter   bool     `json:"dhcp_filter"`
	DynamicMTU   bool     `json:"dynamic_mtu"`
	IPv6         bool     `json:"ipv6"`
	VoLTE        bool     `json:"volte"`
	CSD          bool     `json:"csd"`
	BandList     []string `json:"band_list"`
	Product      string   `json:"product"`
	Vendor       string   `json:"vendor"`
	GPS          string   `json:"gps"`
	StopBits     string   `json:"stop_bits"`
	Baudrate     string   `json:"boudrate"` // wire name is misspelled on the device
	Type         string   `json:"type"`
	Desc         string   `json:"desc"`
	Control      string   `json:"control"`
}

// NetworkInterface holds configuration values for one network interface.
type NetworkInterface struct {
	Proto     string  `json:"proto"`
	Device    string  `json:"device"`
	DefaultIP *string `json:"default_ip,omitempty"`
}

// NetworkConfig is the WAN and LAN interface configuration.
type NetworkConfig struct {
	WAN NetworkInterface `json:"wan"`
	LAN NetworkInterface `json:"lan"`
}

// ModelInfo identifies the device model.
type ModelInfo struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Name     string `json:"name"`
}

// NetworkOptions lists limits used by the switch configuration.
type NetworkOptions struct {
	ReadonlyVlans int `json:"readonly_vlans"`
	MaxMTU        int `json:"max_mtu"`
	Vlans         int `json:"vlans"`
}

// SwitchRole maps switch ports to their assigned role.
type SwitchRole struct {
	Ports  string `json:"ports"`
	Role   string `json:"role"`
	Device string `json:"device"`
}

// SwitchPort is a switch port definition with tagging hints.
type SwitchPort struct {
	Device    *string `json:"device,omitempty"`
	Num       int     `json:"num"`
	WantUntag *bool   `json:"want_untag,omitempty"`
	NeedTag   *bool   `json:"need_tag,omitempty"`
	Role      *string `json:"role,omitempty"`
	Index     *int    `json:"index,omitempty"`
}

// SwitchConfig is the complete profile for one switch.
type SwitchConfig struct {
	Enable bool         `json:"enable"`
	Roles  []SwitchRole `json:"roles"`
	Ports  []SwitchPort `json:"ports"`
	Reset  bool         `json:"reset"`
}

// Switch wraps the switch configuration blocks.
type Switch struct {
	Switch0 SwitchConfig `json:"switch0"`
}

// HardwareInfo lists hardware capabilities advertised by the platform.
type HardwareInfo struct {
	WPS                *bool `json:"wps,omitempty"`
	RS232              *bool `json:"rs232,omitempty"`
	NatOffloading      *bool `json:"nat_offloading,omitempty"`
	DualSim            *bool `json:"dual_sim,omitempty"`
	Bluetooth          *bool `json:"bluetooth,omitempty"`
	SoftPortMirror     *bool `json:"soft_port_mirror,omitempty"`
	VCert              *bool `json:"vcert,omitempty"`
	MicroUSB           *bool `json:"micro_usb,omitempty"`
	WiFi               *bool `json:"wifi,omitempty"`
	SDCard             *bool `json:"sd_card,omitempty"`
	MultiTag           *bool `json:"multi_tag,omitempty"`
	DualModem          *bool `json:"dual_modem,omitempty"`
	SFPSwitch          *bool `json:"sfp_switch,omitempty"`
	DSA                *bool `json:"dsa,omitempty"`
	HwNat              *bool `json:"hw_nat,omitempty"`
	SwRstOnInit        *bool `json:"sw_rst_on_init,omitempty"`
	AtSim              *bool `json:"at_sim,omitempty"`
	PortLink           *bool `json:"port_link,omitempty"`
	IOS                *bool `json:"ios,omitempty"`
	USB                *bool `json:"usb,omitempty"`
	Console            *bool `json:"console,omitempty"`
	DualBandSSID       *bool `json:"dual_band_ssid,omitempty"`
	GPS                *bool `json:"gps,omitempty"`
	Ethernet           *bool `json:"ethernet,omitempty"`
	SFPPort            *bool `json:"sfp_port,omitempty"`
	RS485              *bool `json:"rs485,omitempty"`
	Mobile             *bool `json:"mobile,omitempty"`
	POE                *bool `json:"poe,omitempty"`
	GigabitPort        *bool `json:"gigabit_port,omitempty"`
	TwoHalfGigabitPort *bool `json:"2_5_gigabit_port,omitempty"`
	ESim               *bool `json:"esim,omitempty"`
	ModemReset         *bool `json:"modem_reset,omitempty"`
}

// BoardInfo is the high-level board configuration including modems and
// switch layout.
type BoardInfo struct {
	Modems         []BoardModem   `json:"modems"`
	Network        NetworkConfig  `json:"network"`
	Model          ModelInfo      `json:"model"`
	USBJack        string         `json:"usb_jack"`
	NetworkOptions NetworkOptions `json:"network_options"`
	Switch         Switch         `json:"switch"`
	HwInfo         HardwareInfo   `json:"hwinfo"`
}

// DeviceStatusData is the aggregated payload of /system/device/status.
type DeviceStatusData struct {
	MnfInfo  ManufacturingInfo `json:"mnfinfo"`
	Static   StaticInfo        `json:"static"`
	Features Features          `json:"features"`
	Board    BoardInfo         `json:"board"`
}

// RebootData is the (empty) payload of /system/actions/reboot.
type RebootData struct{}

// System is the client for the /system endpoints.
type System struct {
	auth *Auth
}

// NewSystem creates a system endpoint client.
func NewSystem(auth *Auth) *System {
	return &System{auth: auth}
}

// GetDeviceStatus returns manufacturing, firmware and hardware details.
func (s *System) GetDeviceStatus(ctx context.Context) (*Response[DeviceStatusData], error) {
	resp, err := s.auth.Request(ctx, http.MethodGet, "system/device/status", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading device status response: %w", err)
	}
	return decodeResponse[DeviceStatusData](payload)
}

// Reboot triggers a device reboot and returns the raw API response.
func (s *System) Reboot(ctx context.Context) (*Response[RebootData], error) {
	resp, err := s.auth.Request(ctx, http.MethodPost, "system/actions/reboot", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading reboot response: %w", err)
	}
	return decodeResponse[RebootData](payload)
}
