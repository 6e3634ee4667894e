package ccip

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/base/metrics"
)

const (
	senderParam = "{sender}"
	dataParam   = "{data}"

	defaultMaxResponseBytes = 1 << 20
)

type request struct {
	Data   string `json:"data"`
	Sender string `json:"sender"`
}

type response struct {
	Data string `json:"data"`
}

type client struct {
	client   http.Client
	cfg      ClientCfg
	met      metrics.Service
	maxBytes int64
}

func NewClient(cfg *ClientCfg, met metrics.Service) Gateway {
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}
	return &client{
		client:   cfg.HttpClient,
		cfg:      *cfg,
		met:      met,
		maxBytes: maxBytes,
	}
}

// Fetch follows EIP-3668: a template holding {data} is fetched with GET,
// any other template receives a POST of {"data","sender"}.
func (c *client) Fetch(ctx bCtx.Ctx, urlTemplate string, sender common.Address, callData []byte) ([]byte, error) {
	if !strings.HasPrefix(urlTemplate, "https://") && !strings.HasPrefix(urlTemplate, "http://") {
		return nil, ErrInvalidUrl
	}

	senderHex := strings.ToLower(sender.Hex())
	dataHex := hexutil.Encode(callData)
	url := strings.ReplaceAll(urlTemplate, senderParam, senderHex)

	method := http.MethodPost
	var body io.Reader
	if strings.Contains(urlTemplate, dataParam) {
		method = http.MethodGet
		url = strings.ReplaceAll(url, dataParam, dataHex)
	} else {
		payload, err := json.Marshal(request{Data: dataHex, Sender: senderHex})
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}

	defer c.met.BumpTime("fetch.time", "method", method).End()
	res, err := c.do(ctx, method, url, body)
	if err != nil {
		c.met.BumpSum("fetch.err", 1, "method", method)
		return nil, err
	}
	return res, nil
}

func (c *client) do(ctx bCtx.Ctx, method, url string, body io.Reader) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("NewRequestWithContext failed")
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Warn("gateway status not 2xx")
		return nil, ErrStatusCodeNotOk
	}
	raw, err := ioutil.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed to read body")
		return nil, err
	}

	res := response{}
	if err := json.Unmarshal(raw, &res); err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("failed to unmarshal gateway response")
		return nil, ErrInvalidResponse
	}
	data, err := hexutil.Decode(res.Data)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("gateway data is not hex")
		return nil, ErrInvalidResponse
	}
	return data, nil
}
