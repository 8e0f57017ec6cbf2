package actuator

import (
	"context"
	"errors"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/generalscaler/scale-intent-operator/api/v1alpha1"
)

// Error vocabulary the controller dispatches on.
var (
	// ErrTargetNotFound means the referenced workload does not exist.
	ErrTargetNotFound = errors.New("scale target not found")
	// ErrConflict means a concurrent writer won; retry next tick.
	ErrConflict = errors.New("scale write conflict")
	// ErrTransient covers every other API failure; retry next tick.
	ErrTransient = errors.New("transient api error")
)

// Adapter reads and writes the replica count of a scale target through the
// scale subresource.
type Adapter struct {
	client client.Client
}

// NewAdapter returns an Adapter on the given cluster client.
func NewAdapter(c client.Client) *Adapter {
	return &Adapter{client: c}
}

// TargetRef locates one workload.
type TargetRef struct {
	Namespace string
	Name      string
}

// RefFor builds the TargetRef an intent points at. The target always lives
// in the intent's own namespace.
func RefFor(intent *v1alpha1.ScaleIntent) TargetRef {
	return TargetRef{Namespace: intent.Namespace, Name: intent.Spec.ScaleTargetRef.Name}
}

func (r TargetRef) namespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: r.Namespace, Name: r.Name}
}

func (r TargetRef) deployment() *appsv1.Deployment {
	d := &appsv1.Deployment{}
	d.Namespace = r.Namespace
	d.Name = r.Name
	return d
}

// GetReplicas reads the target's current replica count.
func (a *Adapter) GetReplicas(ctx context.Context, ref TargetRef) (int32, error) {
	scale := &autoscalingv1.Scale{}
	if err := a.client.SubResource("scale").Get(ctx, ref.deployment(), scale); err != nil {
		return 0, classify(err, ref)
	}
	return scale.Spec.Replicas, nil
}

// SetReplicas writes the target's replica count.
func (a *Adapter) SetReplicas(ctx context.Context, ref TargetRef, replicas int32) error {
	d := ref.deployment()
	scale := &autoscalingv1.Scale{}
	if err := a.client.SubResource("scale").Get(ctx, d, scale); err != nil {
		return classify(err, ref)
	}
	scale.Spec.Replicas = replicas
	if err := a.client.SubResource("scale").Update(ctx, d, client.WithSubResourceBody(scale)); err != nil {
		return classify(err, ref)
	}
	return nil
}

func classify(err error, ref TargetRef) error {
	switch {
	case apierrors.IsNotFound(err):
		return fmt.Errorf("%w: %s: %v", ErrTargetNotFound, ref.namespacedName(), err)
	case apierrors.IsConflict(err):
		return fmt.Errorf("%w: %s: %v", ErrConflict, ref.namespacedName(), err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrTransient, ref.namespacedName(), err)
	}
}
