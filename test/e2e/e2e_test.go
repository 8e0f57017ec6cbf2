package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testNamespace = "scale-intent-e2e"

func applyManifest(manifest string) {
	f, err := os.CreateTemp("", "scaleintent-e2e-*.yaml")
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = os.Remove(f.Name()) }()
	_, err = f.WriteString(manifest)
	Expect(err).NotTo(HaveOccurred())
	Expect(f.Close()).To(Succeed())
	_, err = kubectl("apply", "-f", filepath.Clean(f.Name()))
	Expect(err).NotTo(HaveOccurred())
}

func conditionStatus(intent, condType string) string {
	out, err := kubectl("get", "scaleintent", intent, "-n", testNamespace,
		"-o", fmt.Sprintf(`jsonpath={.status.conditions[?(@.type=="%s")].status}`, condType))
	if err != nil {
		return ""
	}
	return out
}

var _ = Describe("ScaleIntent", Ordered, func() {
	BeforeAll(func() {
		_, _ = kubectl("create", "namespace", testNamespace)
	})

	AfterAll(func() {
		_, _ = kubectl("delete", "namespace", testNamespace, "--ignore-not-found")
	})

	It("reports a missing scale target", func() {
		applyManifest(fmt.Sprintf(`
apiVersion: autoscaling.generalscaler.io/v1alpha1
kind: ScaleIntent
metadata:
  name: ghost-target
  namespace: %s
spec:
  scaleTargetRef:
    kind: Deployment
    name: no-such-deployment
  minReplicas: 1
  maxReplicas: 5
  metric:
    type: prometheus
    targetValue: "10"
    prometheus:
      serverURL: http://prometheus.monitoring:9090
      query: sum(rate(http_requests_total[1m]))
  policy:
    type: proportional
`, testNamespace))

		Eventually(func() string {
			return conditionStatus("ghost-target", "TargetMissing")
		}, 2*time.Minute, 2*time.Second).Should(Equal("True"))
	})

	It("scales a deployment toward the metric target", func() {
		applyManifest(fmt.Sprintf(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: worker
  namespace: %s
spec:
  replicas: 1
  selector:
    matchLabels:
      app: worker
  template:
    metadata:
      labels:
        app: worker
    spec:
      containers:
      - name: worker
        image: registry.k8s.io/pause:3.9
`, testNamespace))

		applyManifest(fmt.Sprintf(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: queue
  namespace: %s
spec:
  replicas: 1
  selector:
    matchLabels:
      app: queue
  template:
    metadata:
      labels:
        app: queue
    spec:
      containers:
      - name: redis
        image: redis:7-alpine
        ports:
        - containerPort: 6379
---
apiVersion: v1
kind: Service
metadata:
  name: queue
  namespace: %s
spec:
  selector:
    app: queue
  ports:
  - port: 6379
`, testNamespace, testNamespace))

		_, err := kubectl("wait", "--for=condition=Available",
			"deployment/queue", "-n", testNamespace, "--timeout=2m")
		Expect(err).NotTo(HaveOccurred())

		applyManifest(fmt.Sprintf(`
apiVersion: autoscaling.generalscaler.io/v1alpha1
kind: ScaleIntent
metadata:
  name: worker-intent
  namespace: %s
spec:
  scaleTargetRef:
    kind: Deployment
    name: worker
  minReplicas: 2
  maxReplicas: 6
  syncIntervalSeconds: 5
  metric:
    type: redis
    targetValue: "100"
    redis:
      host: queue.%s.svc.cluster.local
      queueName: jobs
  policy:
    type: proportional
`, testNamespace, testNamespace))

		// An empty queue reads as zero backlog, so the policy settles on
		// minReplicas. The deployment starts below that floor.
		Eventually(func() (string, error) {
			return kubectl("get", "deployment", "worker", "-n", testNamespace,
				"-o", "jsonpath={.spec.replicas}")
		}, 3*time.Minute, 2*time.Second).Should(Equal("2"))

		Eventually(func() string {
			return conditionStatus("worker-intent", "Ready")
		}, 2*time.Minute, 2*time.Second).Should(Equal("True"))
	})
})
