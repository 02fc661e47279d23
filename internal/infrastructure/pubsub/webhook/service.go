package webhookpubsub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
	"github.com/pooldex-network/pooldex-daemon/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

const requestTimeout = 15 * time.Second

type webhookService struct {
	httpClient *client
	cb         *gobreaker.CircuitBreaker

	hooks         map[string]*Webhook
	hooksByAction map[WebhookAction]map[string]*Webhook
	lock          *sync.RWMutex
}

// NewWebhookPubSubService returns a SecurePubSub that notifies registered
// webhook endpoints with a POST request for every published message.
func NewWebhookPubSubService() ports.SecurePubSub {
	return &webhookService{
		httpClient:    newHTTPClient(requestTimeout),
		cb:            circuitbreaker.NewCircuitBreaker("webhook"),
		hooks:         make(map[string]*Webhook),
		hooksByAction: make(map[WebhookAction]map[string]*Webhook),
		lock:          &sync.RWMutex{},
	}
}

func (ws *webhookService) Subscribe(topic string, args ...interface{}) (string, error) {
	actionType, ok := stringToAction[topic]
	if !ok {
		return "", ErrInvalidTopic
	}
	if len(args) != 2 {
		return "", ErrInvalidArgs
	}
	endpoint, ok := args[0].(string)
	if !ok {
		return "", ErrInvalidArgType
	}
	secret, ok := args[1].(string)
	if !ok {
		return "", ErrInvalidArgType
	}

	hook, err := NewWebhook(actionType, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addWebhook(hook)
}

func (ws *webhookService) Unsubscribe(_, id string) error {
	ws.removeWebhook(id)
	return nil
}

func (ws *webhookService) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	actionType, ok := WebhookActionFromString(topic)
	if !ok {
		return nil
	}
	return ws.listWebhooksForAction(actionType)
}

func (ws *webhookService) Publish(topic string, message string) error {
	actionType, ok := WebhookActionFromString(topic)
	if !ok {
		return ErrUnknownWebhookAction
	}
	return ws.invokeWebhooksForAction(actionType, message)
}

func (ws *webhookService) TopicsByCode() map[int]ports.Topic {
	topics := make(map[int]ports.Topic)
	for action := range actionToString {
		topics[int(action)] = action
	}
	return topics
}

func (ws *webhookService) TopicsByLabel() map[string]ports.Topic {
	topics := make(map[string]ports.Topic)
	for label, action := range stringToAction {
		topics[label] = action
	}
	return topics
}

// addWebhook adds the provided hook to those managed by the service.
// If another hook with the same id already exists, the method returns
// preventing overwrites/duplications.
// NOTE: The generation of the hook ID can be assumed enough random to infer
// that if 2 hooks have the same id, then they are the same.
func (ws *webhookService) addWebhook(hook *Webhook) (string, error) {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	if _, ok := ws.hooks[hook.ID]; ok {
		return hook.ID, nil
	}

	ws.hooks[hook.ID] = hook
	if _, ok := ws.hooksByAction[hook.ActionType]; !ok {
		ws.hooksByAction[hook.ActionType] = make(map[string]*Webhook)
	}
	ws.hooksByAction[hook.ActionType][hook.ID] = hook
	return hook.ID, nil
}

// removeWebhook attempts to remove the hook identified by an ID from those
// managed by the service. Nothing is done in case the hook does not actually
// exist.
func (ws *webhookService) removeWebhook(hookID string) {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	hook, ok := ws.hooks[hookID]
	if !ok {
		return
	}

	delete(ws.hooks, hookID)
	delete(ws.hooksByAction[hook.ActionType], hookID)
}

func (ws *webhookService) listWebhooksForAction(actionType WebhookAction) []ports.Subscription {
	hooks := ws.getHooksByAction(actionType)
	if actionType != AllActions {
		hooksForAllActions := ws.getHooksByAction(AllActions)
		hooks = append(hooks, hooksForAllActions...)
	}
	subs := make([]ports.Subscription, len(hooks))
	for i, h := range hooks {
		subs[i] = h
	}
	return subs
}

// invokeWebhooksForAction makes a POST request to every webhook endpoint
// registered for the given action.
// This method adopts a circuit breaker approach in order to maximize the
// chances that every webhook gets invoked without errors.
func (ws *webhookService) invokeWebhooksForAction(actionType WebhookAction, message string) error {
	hooks := ws.getHooksByAction(actionType)
	if actionType != AllActions {
		hooksForAllActions := ws.getHooksByAction(AllActions)
		hooks = append(hooks, hooksForAllActions...)
	}

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) getHooksByAction(actionType WebhookAction) []*Webhook {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	hooks := make([]*Webhook, 0, len(ws.hooksByAction[actionType]))
	for _, hook := range ws.hooksByAction[actionType] {
		hooks = append(hooks, hook)
	}
	return hooks
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if hook.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			secret := []byte(hook.Secret)
			tokenString, _ := token.SignedString(secret)
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(
			context.Background(), hook.Endpoint, payload, headers,
		)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(resp)
		}
		return nil, nil
	})

	return err
}
