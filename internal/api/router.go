package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const DefaultAPIAddr = "127.0.0.1:9922"

const (
	PathDevices     = "/api/devices"
	PathDevice      = "/api/devices/:name"
	PathDeviceFrame = "/api/devices/:name/frames"
	PathDeviceStats = "/api/devices/:name/stats"
)

func SetDeviceRouter(g *gin.Engine, impl DeviceAPI) {
	h := DeviceHandler{impl: impl}
	g.GET(PathDevices, h.QueryDevices)
	g.GET(PathDevice, h.QueryDevice)
	g.POST(PathDevices, h.AddDevice)
	g.POST(PathDeviceFrame, h.SendFrame)
	g.GET(PathDeviceStats, h.QueryDeviceStats)
}

// InstantiateDeviceAPIURL fills the :name parameter of apiPath.
func InstantiateDeviceAPIURL(apiPath string, name string) string {
	return InstantiateAPIURL(apiPath, map[string]string{":name": name})
}

func InstantiateAPIURL(apiPath string, params map[string]string) string {
	for k, v := range params {
		apiPath = strings.ReplaceAll(apiPath, k, v)
	}
	return strings.TrimSuffix(apiPath, "/")
}
