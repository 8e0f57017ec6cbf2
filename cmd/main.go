package main

import (
	"os"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	autoscalingv1alpha1 "github.com/generalscaler/scale-intent-operator/api/v1alpha1"
	"github.com/generalscaler/scale-intent-operator/internal/actuator"
	"github.com/generalscaler/scale-intent-operator/internal/binding"
	"github.com/generalscaler/scale-intent-operator/internal/config"
	"github.com/generalscaler/scale-intent-operator/internal/controller"
	"github.com/generalscaler/scale-intent-operator/internal/logging"
	"github.com/generalscaler/scale-intent-operator/internal/scaler"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(autoscalingv1alpha1.AddToScheme(scheme))
}

func main() {
	var (
		metricsAddr          string
		probeAddr            string
		enableLeaderElection bool
		configFile           string
	)
	pflag.StringVar(&metricsAddr, "metrics-bind-address", ":8080",
		"The address the metrics endpoint binds to.")
	pflag.StringVar(&probeAddr, "health-probe-bind-address", ":8081",
		"The address the health probe endpoint binds to.")
	pflag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	pflag.StringVar(&configFile, "config", "",
		"Path to an optional operator configuration file.")
	pflag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		// The logger isn't wired yet when config loading fails.
		ctrl.Log.Error(err, "unable to load operator configuration")
		os.Exit(1)
	}

	ctrl.SetLogger(logging.NewLogger(cfg.ZapDevel))

	opts := ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "scale-intent-operator.generalscaler.io",
	}
	if cfg.WatchNamespace != "" {
		opts.Cache = cache.Options{
			DefaultNamespaces: map[string]cache.Config{
				cfg.WatchNamespace: {},
			},
		}
		setupLog.Info("watching single namespace", "namespace", cfg.WatchNamespace)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), opts)
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	reconciler := &controller.ScaleIntentReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Config:   cfg,
		Scaler:   scaler.NewSafeScaler(),
		Bindings: binding.NewRegistry(),
		Adapter:  actuator.NewAdapter(mgr.GetClient()),
	}
	if err := reconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "ScaleIntent")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager",
		"sampleTimeout", cfg.SampleTimeout,
		"absoluteMaxReplicas", cfg.AbsoluteMaxReplicas,
		"defaultSyncInterval", cfg.DefaultSyncInterval)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
