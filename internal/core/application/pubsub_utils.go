package application

import (
	"encoding/json"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
)

func publishPoolCreatedTopic(
	pubsub ports.SecurePubSub, pool *domain.Pool,
) error {
	if pubsub == nil {
		return nil
	}

	topics := pubsub.TopicsByCode()
	topic := topics[PoolCreated]
	payload := map[string]interface{}{
		"pool_id": pool.Id,
		"asset_0": pool.Asset0,
		"asset_1": pool.Asset1,
	}
	message, _ := json.Marshal(payload)

	return pubsub.Publish(topic.Label(), string(message))
}

func publishLiquidityAddedTopic(
	pubsub ports.SecurePubSub,
	poolId, provider string, deposit *domain.LiquidityDeposit,
) error {
	if pubsub == nil {
		return nil
	}

	topics := pubsub.TopicsByCode()
	topic := topics[LiquidityAdded]
	payload := map[string]interface{}{
		"pool_id":       poolId,
		"provider":      provider,
		"amount_0":      deposit.Amount0.String(),
		"amount_1":      deposit.Amount1.String(),
		"shares_minted": deposit.SharesMinted.String(),
	}
	message, _ := json.Marshal(payload)

	return pubsub.Publish(topic.Label(), string(message))
}

func publishLiquidityRemovedTopic(
	pubsub ports.SecurePubSub,
	poolId, provider string, withdrawal *domain.LiquidityWithdrawal,
) error {
	if pubsub == nil {
		return nil
	}

	topics := pubsub.TopicsByCode()
	topic := topics[LiquidityRemoved]
	payload := map[string]interface{}{
		"pool_id":       poolId,
		"provider":      provider,
		"amount_0":      withdrawal.Amount0.String(),
		"amount_1":      withdrawal.Amount1.String(),
		"shares_burned": withdrawal.SharesBurned.String(),
	}
	message, _ := json.Marshal(payload)

	return pubsub.Publish(topic.Label(), string(message))
}

func publishSwapTopic(
	pubsub ports.SecurePubSub,
	poolId, sender, recipient string, result *domain.SwapResult,
) error {
	if pubsub == nil {
		return nil
	}

	topics := pubsub.TopicsByCode()
	topic := topics[SwapSettled]
	payload := map[string]interface{}{
		"pool_id":    poolId,
		"sender":     sender,
		"recipient":  recipient,
		"asset_in":   result.AssetIn,
		"amount_in":  result.AmountIn.String(),
		"asset_out":  result.AssetOut,
		"amount_out": result.AmountOut.String(),
		"fee_amount": result.FeeAmount.String(),
	}
	message, _ := json.Marshal(payload)

	return pubsub.Publish(topic.Label(), string(message))
}
