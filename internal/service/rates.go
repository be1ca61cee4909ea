package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const cbuRatesURL = "https://cbu.uz/uz/arkhiv-kursov-valyut/xml/"

// RatesClient получает официальные курсы валют ЦБ Узбекистана и пересчитывает
// суммы в базовую валюту. Курсы кэшируются на время TTL.
type RatesClient struct {
	httpClient   *http.Client
	logger       *logrus.Logger
	baseCurrency string
	cacheTTL     time.Duration

	mu        sync.Mutex
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

func NewRatesClient(baseCurrency string, cacheTTL time.Duration, logger *logrus.Logger) *RatesClient {
	return &RatesClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:       logger,
		baseCurrency: baseCurrency,
		cacheTTL:     cacheTTL,
	}
}

// fetchRates запрашивает XML с курсами у ЦБ и возвращает необработанный ответ
func (c *RatesClient) fetchRates() ([]byte, error) {
	req, err := http.NewRequest("GET", cbuRatesURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении HTTP-запроса: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("неожиданный статус ответа ЦБ: %d", resp.StatusCode)
	}

	// Чтение тела ответа
	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении ответа: %v", err)
	}

	return rawBody, nil
}

// parseRatesXML парсит XML-ответ и извлекает курсы валют к суму
func parseRatesXML(rawBody []byte) (map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("ошибка при разборе XML: %v", err)
	}

	entries := doc.FindElements("//CcyNtry")
	if len(entries) == 0 {
		return nil, errors.New("данные по курсам валют не найдены")
	}

	rates := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		ccyElement := entry.FindElement("./Ccy")
		rateElement := entry.FindElement("./Rate")
		nominalElement := entry.FindElement("./Nominal")
		if ccyElement == nil || rateElement == nil {
			continue
		}

		rate, err := decimal.NewFromString(rateElement.Text())
		if err != nil {
			return nil, fmt.Errorf("ошибка при преобразовании курса %s: %v", ccyElement.Text(), err)
		}

		// Курс задаётся за номинал единиц валюты
		if nominalElement != nil {
			nominal, err := decimal.NewFromString(nominalElement.Text())
			if err == nil && !nominal.IsZero() {
				rate = rate.Div(nominal)
			}
		}

		rates[ccyElement.Text()] = rate
	}

	return rates, nil
}

// currentRates возвращает кэшированные курсы, обновляя их по истечении TTL
func (c *RatesClient) currentRates() (map[string]decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.rates, nil
	}

	c.logger.Info("Запрос курсов валют у ЦБ...")
	rawBody, err := c.fetchRates()
	if err != nil {
		c.logger.WithError(err).Error("Ошибка при запросе курсов валют")
		// Протухший кэш лучше, чем отсутствие курсов
		if c.rates != nil {
			return c.rates, nil
		}
		return nil, err
	}

	rates, err := parseRatesXML(rawBody)
	if err != nil {
		c.logger.WithError(err).Error("Ошибка при разборе XML-ответа ЦБ")
		if c.rates != nil {
			return c.rates, nil
		}
		return nil, err
	}

	c.rates = rates
	c.fetchedAt = time.Now()
	c.logger.WithField("currencies", len(rates)).Info("Курсы валют успешно обновлены")
	return rates, nil
}

// Convert пересчитывает сумму в базовую валюту. При недоступности курса
// сумма возвращается как есть, чтобы не терять данные в отчётах.
func (c *RatesClient) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == c.baseCurrency || currency == "" {
		return amount
	}

	rates, err := c.currentRates()
	if err != nil {
		c.logger.WithField("currency", currency).Warn("Курсы недоступны, сумма не пересчитана")
		return amount
	}

	rate, ok := rates[currency]
	if !ok {
		c.logger.WithField("currency", currency).Warn("Курс валюты не найден, сумма не пересчитана")
		return amount
	}

	return amount.Mul(rate)
}
