package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fashionapp/resale-checkout/internal/order"
)

// GatewayCodeSuccess is VNPay's "transaction approved" response code.
const GatewayCodeSuccess = "00"

var ErrInvalidSignature = errors.New("gateway signature mismatch")

// VNPay timestamps are always expressed in the gateway's reference
// timezone, not the server's local zone.
var vnpZone = time.FixedZone("UTC+7", 7*60*60)

const vnpTimeLayout = "20060102150405" // yyyyMMddHHmmss

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

// VNPay encapsulates the gateway's signature protocol: building signed
// outbound payment URLs and verifying inbound callback parameters. It
// performs no network calls.
type VNPay struct {
	cfg VNPayConfig
	now func() time.Time
}

func NewVNPay(cfg VNPayConfig) *VNPay {
	return &VNPay{cfg: cfg, now: time.Now}
}

// CreatePaymentURL builds the signed redirect URL for an order. The
// amount is transmitted in the gateway's minor unit (total x 100) to stay
// integer-safe on the wire.
func (g *VNPay) CreatePaymentURL(o *order.Order, clientIP string) (string, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return "", fmt.Errorf("order %d: bad total: %w", o.ID, err)
	}
	amount := total.Shift(2).Round(0).IntPart()

	created := g.now().In(vnpZone)
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     strconv.FormatInt(o.ID, 10),
		"vnp_OrderInfo":  fmt.Sprintf("Thanh toan don hang #%d", o.ID),
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_Amount":     strconv.FormatInt(amount, 10),
		"vnp_CreateDate": created.Format(vnpTimeLayout),
		"vnp_ExpireDate": created.Add(15 * time.Minute).Format(vnpTimeLayout),
	}

	hashData, query := buildSignedStrings(params)
	sig := hmacSHA512Hex(g.cfg.HashSecret, hashData)
	return g.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + sig, nil
}

// CallbackResult is what a verified inbound notification asserts.
type CallbackResult struct {
	TxnRef       int64
	ResponseCode string
	AmountMinor  int64
}

// VerifyCallback recomputes the signature over the raw callback
// parameters and compares it against the one the gateway supplied. This
// is the sole trust boundary for inbound notifications: nothing may act
// on the response code or amount unless this succeeds.
func (g *VNPay) VerifyCallback(raw url.Values) (*CallbackResult, error) {
	given := raw.Get("vnp_SecureHash")

	params := make(map[string]string, len(raw))
	for key := range raw {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		if v := raw.Get(key); v != "" {
			params[key] = v
		}
	}

	hashData, _ := buildSignedStrings(params)
	want := hmacSHA512Hex(g.cfg.HashSecret, hashData)
	if given == "" || !hmac.Equal([]byte(strings.ToLower(given)), []byte(want)) {
		return nil, ErrInvalidSignature
	}

	res := &CallbackResult{ResponseCode: params["vnp_ResponseCode"]}
	if ref, err := strconv.ParseInt(params["vnp_TxnRef"], 10, 64); err == nil {
		res.TxnRef = ref
	} else {
		return nil, fmt.Errorf("bad vnp_TxnRef %q", params["vnp_TxnRef"])
	}
	if amt, err := strconv.ParseInt(params["vnp_Amount"], 10, 64); err == nil {
		res.AmountMinor = amt
	} else {
		return nil, fmt.Errorf("bad vnp_Amount %q", params["vnp_Amount"])
	}
	return res, nil
}

// buildSignedStrings walks the parameters in lexicographic key order and
// produces the hash string (keys plain, values urlencoded) and the query
// string (both urlencoded), skipping empty values.
func buildSignedStrings(params map[string]string) (hashData, query string) {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var hb, qb strings.Builder
	for i, k := range keys {
		if i > 0 {
			hb.WriteByte('&')
			qb.WriteByte('&')
		}
		v := url.QueryEscape(params[k])
		hb.WriteString(k)
		hb.WriteByte('=')
		hb.WriteString(v)
		qb.WriteString(url.QueryEscape(k))
		qb.WriteByte('=')
		qb.WriteString(v)
	}
	return hb.String(), qb.String()
}

func hmacSHA512Hex(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
