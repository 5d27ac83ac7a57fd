package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/zxhio/linkframe/internal/errcode"
	"github.com/zxhio/linkframe/internal/model"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
)

type AddDeviceReq struct {
	Name string `json:"name" binding:"required"`
}

type AddDeviceResp model.Device

type QueryDeviceResp model.Device

type QueryDevicesResp QueryPageResp[model.Device]

type SendFrameReq struct {
	Dst     netaddr.HwAddr `json:"dst"`
	Type    uint16         `json:"type"`
	Payload string         `json:"payload"`
}

type SendFrameResp struct {
	Length int `json:"length"`
}

type QueryDeviceStatsResp model.DeviceStats

type DeviceAPI interface {
	AddDevice(name string) (*model.Device, error)
	QueryDevice(name string) (*model.Device, error)
	QueryDevices(page, limit int) ([]*model.Device, int, error)
	QueryDeviceStats(name string) (*model.DeviceStats, error)
	SendFrame(name string, f *model.Frame) error
}

type DeviceHandler struct {
	impl DeviceAPI
}

func (h *DeviceHandler) AddDevice(c *gin.Context) {
	var req AddDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		SetResponseError(c, errcode.NewError(errcode.CodeInvalid, errors.Wrap(err, "json.Unmarshal")))
		return
	}

	dev, err := h.impl.AddDevice(req.Name)
	if err != nil {
		SetResponseError(c, err)
		return
	}
	SetResponseData(c, (*AddDeviceResp)(dev))
}

func (h *DeviceHandler) QueryDevice(c *gin.Context) {
	dev, err := h.impl.QueryDevice(c.Param("name"))
	if err != nil {
		SetResponseError(c, err)
		return
	}
	SetResponseData(c, (*QueryDeviceResp)(dev))
}

func (h *DeviceHandler) QueryDevices(c *gin.Context) {
	p := NewPageFromRequest(c.Request)
	devices, total, err := h.impl.QueryDevices(p.Page, p.Limit)
	if err != nil {
		SetResponseError(c, err)
		return
	}

	resp := QueryDevicesResp{QueryPage: p, Data: make([]model.Device, 0, len(devices))}
	resp.Total = total
	for _, dev := range devices {
		resp.Data = append(resp.Data, *dev)
	}
	SetResponseData(c, resp)
}

func (h *DeviceHandler) QueryDeviceStats(c *gin.Context) {
	stats, err := h.impl.QueryDeviceStats(c.Param("name"))
	if err != nil {
		SetResponseError(c, err)
		return
	}
	SetResponseData(c, (*QueryDeviceStatsResp)(stats))
}

func (h *DeviceHandler) SendFrame(c *gin.Context) {
	var req SendFrameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		SetResponseError(c, errcode.NewError(errcode.CodeInvalid, errors.Wrap(err, "json.Unmarshal")))
		return
	}

	err := h.impl.SendFrame(c.Param("name"), &model.Frame{Dst: req.Dst, Type: req.Type, Payload: req.Payload})
	if err != nil {
		SetResponseError(c, err)
		return
	}
	SetResponseData(c, SendFrameResp{Length: frame.MinLen + len(req.Payload)})
}
