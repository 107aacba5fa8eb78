package service

import "fmt"

const (
	DefaultCartURLBase = "https://www.zenirmoveis.com.br/url_do_carrinho"
	DefaultCouponCode  = "ZENIR5"
	couponDiscountPct  = 5
)

func SentimentPrompt(text string) string {
	return fmt.Sprintf(
		"Analise o sentimento do seguinte texto em português brasileiro de um cliente: '%s'. "+
			"Retorne 'positivo', 'neutro' ou 'negativo'.",
		text,
	)
}

type CopyOffer struct {
	CartURLBase string
	CouponCode  string
}

func (o CopyOffer) withDefaults() CopyOffer {
	if o.CartURLBase == "" {
		o.CartURLBase = DefaultCartURLBase
	}
	if o.CouponCode == "" {
		o.CouponCode = DefaultCouponCode
	}
	return o
}

func CartRecoveryPrompt(clientName, productDescription string, offer CopyOffer) string {
	offer = offer.withDefaults()
	return fmt.Sprintf(
		"Crie um texto persuasivo em português brasileiro para %s que deixou o %s no carrinho. "+
			"O tom deve ser amigável e enfatizar a urgência da compra, cite sempre o nome do cliente e do produto, "+
			"gere o link do carrinho (base da url: %s) "+
			"e sugira um cupom de desconto de %d%% chamado %s para finalizar a compra.",
		clientName, productDescription, offer.CartURLBase, couponDiscountPct, offer.CouponCode,
	)
}
